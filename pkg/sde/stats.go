package sde

// Stats describes what the reference dataset currently holds
type Stats struct {
	Backend string `json:"backend"`
	Loaded  bool   `json:"loaded"`
	Types   int    `json:"types"`
	Groups  int    `json:"groups"`
}

// Stats returns counts without forcing a load.
func (s *Service) Stats() Stats {
	loaded := s.IsLoaded()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{
		Backend: "file",
		Loaded:  loaded,
		Types:   len(s.types),
		Groups:  len(s.groups),
	}
}
