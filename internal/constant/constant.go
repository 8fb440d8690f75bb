package constant

const (
	ClientIP = "client_ip"
	UserKey  = "user"
)
