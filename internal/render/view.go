package render

import "github.com/go-ports/agame/internal/game"

// View is the machine-readable form of a screen.
type View struct {
	Phase   string       `json:"phase"`
	Loading string       `json:"loading,omitempty"`
	Error   string       `json:"error,omitempty"`
	Title   string       `json:"title,omitempty"`
	Points  *int64       `json:"points,omitempty"`
	Label   string       `json:"points_label,omitempty"`
	Buttons []ButtonView `json:"buttons,omitempty"`
	User    *UserView    `json:"user,omitempty"`
}

// ButtonView is one control on screen.
type ButtonView struct {
	Amount  int    `json:"amount"`
	Label   string `json:"label"`
	Enabled bool   `json:"enabled"`
}

// UserView identifies the player.
type UserView struct {
	ID      string `json:"id"`
	ShortID string `json:"short_id"`
	Name    string `json:"name,omitempty"`
}

// ViewOf describes st. Points, buttons and user are present only when ready.
func (s *Screen) ViewOf(st game.State) View {
	v := View{Phase: st.Phase.String()}
	switch st.Phase {
	case game.PhaseLoading:
		v.Loading = s.loading
		if st.Content != nil {
			v.Loading = st.Content.Loading
		}
	case game.PhaseError:
		v.Error = errorPrefix(st) + " " + st.Err
	case game.PhaseReady:
		points := st.User.Points
		v.Title = st.Content.Title
		v.Points = &points
		v.Label = st.Content.PointsLabel
		v.Buttons = make([]ButtonView, 0, len(st.Content.Buttons))
		for _, b := range st.Content.Buttons {
			v.Buttons = append(v.Buttons, ButtonView{Amount: b.Amount, Label: b.Label, Enabled: !st.MutationInFlight})
		}
		v.User = &UserView{ID: st.User.ID, ShortID: st.User.ShortID(), Name: st.User.DisplayName()}
	}
	return v
}

// View describes the current state.
func (s *Screen) View() View {
	return s.ViewOf(s.sess.Store.Snapshot())
}
