package models

// Route - экран, на который клиент должен перейти после входа.
type Route string

const (
	RouteEmailVerification Route = "email_verification"
	RouteUsername          Route = "username"
	RouteSongSelection     Route = "song_selection"
	RouteHome              Route = "home"
)

// Ключи маркеров сессии.
const (
	MarkerLastLoginDate = "lastLoginDate"
	MarkerSelectedSong  = "selectedSong"
)

// Decision - результат работы Session Gate.
type Decision struct {
	Route  Route  `json:"route"`
	Day    string `json:"date,omitempty"`
	NewDay bool   `json:"new_day"`
}
