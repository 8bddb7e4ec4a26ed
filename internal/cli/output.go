package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/livesboard/livesboard/internal/domain"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]any{
			"error": map[string]string{"message": err.Error()},
		})
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case []domain.Player:
		o.printLeaderboard(v)
	case domain.Player:
		o.printPlayer(v)
	case domain.Profile:
		o.printProfile(v)
	case domain.VIPProfile:
		o.printVIPProfile(v)
	case domain.Session:
		o.printSession(v)
	case domain.User:
		o.printUser(v)
	case []domain.LifeEvent:
		o.printLifeEvents(v)
	case []domain.HelpRequest:
		o.printHelpRequests(v)
	case domain.HelpRequest:
		o.printHelpRequest(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printLeaderboard(players []domain.Player) {
	if len(players) == 0 {
		fmt.Println("No players yet")
		return
	}
	fmt.Printf("Players (%d):\n", len(players))
	for i, p := range players {
		marker := " "
		if p.Eliminated() {
			marker = "x"
		}
		status := ""
		if p.Status != "" {
			status = fmt.Sprintf("  %q", p.Status)
		}
		fmt.Printf("%3d. [%s] %-20s %d/%d lives (id %d)%s\n",
			i+1, marker, p.DisplayName(), p.Lives, p.MaxLives, p.ID, status)
	}
}

func (o *Output) printPlayer(p domain.Player) {
	fmt.Printf("Player: %s (id %d)\n", p.DisplayName(), p.ID)
	fmt.Printf("Lives: %d/%d\n", p.Lives, p.MaxLives)
	if p.Eliminated() {
		fmt.Println("Eliminated: yes")
	}
	if name := fullName(p.FirstName, p.LastName); name != "" {
		fmt.Printf("Name: %s\n", name)
	}
	if p.Status != "" {
		fmt.Printf("Status: %s\n", p.Status)
	}
	if p.ImageURL != nil {
		fmt.Printf("Image: %s\n", *p.ImageURL)
	}
}

func (o *Output) printProfile(p domain.Profile) {
	fmt.Printf("Profile: %s (%s)\n", p.DisplayName, p.ID)
	if p.Status != "" {
		fmt.Printf("Status: %s\n", p.Status)
	}
	if p.AvatarURL != nil {
		fmt.Printf("Avatar: %s\n", *p.AvatarURL)
	}
	if p.IsAdmin {
		fmt.Println("Admin: yes")
	}
}

func (o *Output) printVIPProfile(p domain.VIPProfile) {
	fmt.Printf("VIP: %s\n", p.DisplayName)
	if p.AvatarURL != nil {
		fmt.Printf("Avatar: %s\n", *p.AvatarURL)
	}
}

func (o *Output) printSession(s domain.Session) {
	o.printUser(s.User)
	if !s.ExpiresAt.IsZero() {
		fmt.Printf("Expires: %s\n", s.ExpiresAt.Format("2006-01-02 15:04:05"))
	}
}

func (o *Output) printUser(u domain.User) {
	fmt.Printf("Signed in as: %s (%s)\n", u.Email, u.ID)
}

func (o *Output) printLifeEvents(events []domain.LifeEvent) {
	if len(events) == 0 {
		fmt.Println("No life events")
		return
	}
	for _, e := range events {
		who := fmt.Sprintf("player %d", e.PlayerID)
		if e.Player != nil && e.Player.Nickname != "" {
			who = e.Player.Nickname
		}
		fmt.Printf("%s  %-20s %+d  %s\n",
			e.CreatedAt.Format("2006-01-02 15:04"), who, e.Amount, e.Reason)
	}
}

func (o *Output) printHelpRequests(reqs []domain.HelpRequest) {
	if len(reqs) == 0 {
		fmt.Println("No notifications")
		return
	}
	for _, r := range reqs {
		o.printHelpRequest(r)
	}
}

func (o *Output) printHelpRequest(r domain.HelpRequest) {
	state := "unread"
	if r.Read {
		state = "read"
	}
	from := ""
	if r.Sender != nil {
		from = " from " + r.Sender.Nickname
	}
	to := ""
	if r.Target != nil {
		to = " to " + r.Target.Nickname
	} else if r.Type == domain.HelpRequestGeneral {
		to = " to everyone"
	}
	fmt.Printf("[%d] %s (%s)%s%s: %s\n",
		r.ID, r.CreatedAt.Format("2006-01-02 15:04"), state, from, to, r.Message)
}

func fullName(first, last *string) string {
	parts := []string{}
	if first != nil && *first != "" {
		parts = append(parts, *first)
	}
	if last != nil && *last != "" {
		parts = append(parts, *last)
	}
	return strings.Join(parts, " ")
}
