package dto

type Credentials struct {
	Password string `json:"password"`
}
