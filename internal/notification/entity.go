package notification

const (
	ReminderTitle = "Remember your daily goals!"
	ReminderBody  = "You have pending goals to complete today"
)

type Message struct {
	Title string
	Body  string
}

func DailyReminder() Message {
	return Message{Title: ReminderTitle, Body: ReminderBody}
}

type RegisterTokenDTO struct {
	Token    string `json:"token"`
	Platform string `json:"platform,omitempty"`
}

// Report sums up one reminder run.
type Report struct {
	Tokens  int `json:"tokens"`
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Removed int `json:"removed"`
}
