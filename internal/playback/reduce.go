package playback

// Reduce folds one event into a state and returns the new snapshot.
// It is pure: each event updates only the fields it names.
func Reduce(s UiState, e PlaybackEvent) UiState {
	switch e := e.(type) {
	case Play:
		s.Playing = true
	case Pause:
		s.Playing = false
	case SetIdle:
		s.Idle = e.Idle
	case SetBuffering:
		s.Buffering = e.Buffering
	case SetURL:
		s.URL = e.URL
	case ChangeDuration:
		s.TotalDuration = e.Total
		s.PlayedDuration = e.Played
	case ChangeProgress:
		s.MaxProgress = e.Max
		s.CurrentProgress = e.Current
	case SetMetadata:
		s.Title = e.Title
		s.Artist = e.Artist
		s.Album = e.Album
		s.ArtPath = e.ArtPath
	case ChangeVolume:
		s.Volume = e.Level
		s.Muted = e.Muted
	case ChangeDownload:
		s.BufferedBytes = e.Buffered
		s.TotalBytes = e.Total
	case Fail:
		s.Error = e.Message
	case ClearError:
		s.Error = ""
	}
	return s
}

// ReduceAll folds a sequence of events, left to right.
func ReduceAll(s UiState, events ...PlaybackEvent) UiState {
	for _, e := range events {
		s = Reduce(s, e)
	}
	return s
}
