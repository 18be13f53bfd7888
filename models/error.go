package models

// ErrorResponse is the JSON body returned for every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}
