package models

// RegisterInput - данные для регистрации
type RegisterInput struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	PhoneNumber *string
}

// TokenPair - пара токенов, выдаваемая при входе
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresIn    int
}

// AuthResult - пользователь и выданные ему токены
type AuthResult struct {
	User   *User
	Tokens TokenPair
}
