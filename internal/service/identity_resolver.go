package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abreuwilliam/Desafio/internal/delivery/dto"
	"github.com/abreuwilliam/Desafio/internal/domain/entity"
)

// ErrEncryptionFailed is returned when a supplied identity field
// cannot be encrypted. The ingestion must fail rather than drop the
// field silently.
var ErrEncryptionFailed = errors.New("failed to encrypt identity field")

// fieldEncrypter is the slice of *crypto.FieldCipher the resolver needs.
type fieldEncrypter interface {
	Encrypt(plaintext string) (string, error)
}

// IdentityResolver decides the identity values persisted with a
// reading: values supplied by the caller win, otherwise they are
// inherited from the patient's most recent stored record.
type IdentityResolver struct {
	cipher fieldEncrypter
}

func NewIdentityResolver(cipher fieldEncrypter) *IdentityResolver {
	return &IdentityResolver{cipher: cipher}
}

// Resolve returns the name ciphertext and CPF ciphertext to persist.
// A caller-supplied CPF is reduced to its digits and freshly
// encrypted; a document with no digits counts as not supplied. An
// inherited CPF is already ciphertext and is passed through
// untouched. prev is the most recent stored record for the patient,
// or nil when none exists.
func (r *IdentityResolver) Resolve(req *dto.IngestVitalSignRequest, prev *entity.VitalSignRecord) (string, string, error) {
	name := ""
	if strings.TrimSpace(req.PatientName) != "" {
		encrypted, err := r.cipher.Encrypt(req.PatientName)
		if err != nil {
			return "", "", fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
		}
		name = encrypted
	} else if prev != nil {
		name = prev.PatientName
	}

	cpf := ""
	if digits := digitsOnly(req.PatientCPF); digits != "" {
		encrypted, err := r.cipher.Encrypt(digits)
		if err != nil {
			return "", "", fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
		}
		cpf = encrypted
	} else if prev != nil {
		cpf = prev.PatientCPF
	}

	return name, cpf, nil
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
