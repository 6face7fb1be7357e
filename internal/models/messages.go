package models

// VerificationMessage публикуется в очередь писем после регистрации.
type VerificationMessage struct {
	Email string `json:"email"`
	Link  string `json:"link"`
}

// ReminderMessage публикуется планировщиком для пользователей без песни дня.
type ReminderMessage struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Day      string `json:"date"`
}
