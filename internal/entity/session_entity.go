package entity

// Session is the per-visitor authentication state. Notebooks maps a notebook
// slug to whether this session has verified its password. AdminLoggedIn is the
// independent admin flag and is never touched by notebook auth transitions.
type Session struct {
	ID            string          `json:"id"`
	Notebooks     map[string]bool `json:"notebooks"`
	AdminLoggedIn bool            `json:"admin_logged_in"`
}

func NewSession(id string) *Session {
	return &Session{
		ID:        id,
		Notebooks: make(map[string]bool),
	}
}

func (s *Session) IsAuthenticated(slug string) bool {
	return s.Notebooks[slug]
}

func (s *Session) SetAuthenticated(slug string, authenticated bool) {
	if s.Notebooks == nil {
		s.Notebooks = make(map[string]bool)
	}
	if authenticated {
		s.Notebooks[slug] = true
		return
	}
	delete(s.Notebooks, slug)
}
