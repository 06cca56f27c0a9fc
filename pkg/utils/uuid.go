package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const (
	characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	idLength   = 8
)

// GenerateID gera um identificador curto para ciclos de renderização e registros semeados
func GenerateID() (string, error) {
	return gonanoid.Generate(characters, idLength)
}
