package response

type ResponseData struct {
	Ec      int    `json:"ec"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type RegisterResponse struct {
	Message     string `json:"message"`
	AccessToken string `json:"access_token"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

type ProtectedResponse struct {
	LoggedInAs string `json:"logged_in_as"`
}
