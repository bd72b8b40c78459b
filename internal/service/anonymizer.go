package service

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Anonymizer deriva hashes con clave para ids y mensajes.
// Lo que sale del pipeline hacia logs o escalaciones pasa por aca.
type Anonymizer struct {
	key       []byte
	ephemeral bool
}

// NewAnonymizer sin secreto genera una clave aleatoria del proceso: los hashes
// no se pueden revertir por diccionario pero cambian en cada reinicio.
func NewAnonymizer(secret string) *Anonymizer {
	if strings.TrimSpace(secret) == "" {
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			panic("anonymizer: read random key: " + err.Error())
		}
		return &Anonymizer{key: key, ephemeral: true}
	}
	key := []byte(secret)
	if len(key) > blake2b.Size {
		sum := blake2b.Sum512(key)
		key = sum[:]
	}
	return &Anonymizer{key: key}
}

// Ephemeral indica que la clave se genero al arrancar.
func (a *Anonymizer) Ephemeral() bool {
	return a.ephemeral
}

// HashID normaliza y hashea un identificador. Vacio devuelve "anonymous".
func (a *Anonymizer) HashID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return "anonymous"
	}
	return a.sum("id:" + id)[:32]
}

// HashMessage devuelve el digest completo del texto; el texto nunca se guarda.
func (a *Anonymizer) HashMessage(text string) string {
	return a.sum("msg:" + text)
}

func (a *Anonymizer) sum(v string) string {
	h, err := blake2b.New256(a.key)
	if err != nil {
		sum := blake2b.Sum256(append(append([]byte(nil), a.key...), v...))
		return hex.EncodeToString(sum[:])
	}
	h.Write([]byte(v))
	return hex.EncodeToString(h.Sum(nil))
}
