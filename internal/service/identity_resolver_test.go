package service

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/abreuwilliam/Desafio/internal/delivery/dto"
	"github.com/abreuwilliam/Desafio/internal/domain/entity"
	"github.com/abreuwilliam/Desafio/pkg/crypto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCipher(t *testing.T) *crypto.FieldCipher {
	t.Helper()
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	cipher, err := crypto.NewFieldCipher(base64.StdEncoding.EncodeToString(key))
	require.NoError(t, err)
	return cipher
}

func TestResolveEncryptsSuppliedIdentity(t *testing.T) {
	cipher := newTestCipher(t)
	resolver := NewIdentityResolver(cipher)

	req := &dto.IngestVitalSignRequest{
		PatientID:   "P1",
		PatientName: "Ana",
		PatientCPF:  "123.456.789-00",
	}

	name, cpf, err := resolver.Resolve(req, nil)
	require.NoError(t, err)

	decryptedName, err := cipher.Decrypt(name)
	require.NoError(t, err)
	assert.Equal(t, "Ana", decryptedName)

	decryptedCPF, err := cipher.Decrypt(cpf)
	require.NoError(t, err)
	assert.Equal(t, "12345678900", decryptedCPF, "cpf must be reduced to digits before encryption")
}

func TestResolveInheritsFromMostRecentRecord(t *testing.T) {
	cipher := newTestCipher(t)
	resolver := NewIdentityResolver(cipher)

	prevName, err := cipher.Encrypt("Ana")
	require.NoError(t, err)
	prevCPF, err := cipher.Encrypt("12345678900")
	require.NoError(t, err)

	prev := &entity.VitalSignRecord{
		PatientID:   "P1",
		PatientName: prevName,
		PatientCPF:  prevCPF,
	}

	req := &dto.IngestVitalSignRequest{PatientID: "P1"}

	name, cpf, err := resolver.Resolve(req, prev)
	require.NoError(t, err)

	// Inherited ciphertext is passed through untouched, not re-encrypted.
	assert.Equal(t, prevName, name)
	assert.Equal(t, prevCPF, cpf)
}

func TestResolveSuppliedCPFReplacesInherited(t *testing.T) {
	cipher := newTestCipher(t)
	resolver := NewIdentityResolver(cipher)

	prevCPF, err := cipher.Encrypt("11111111111")
	require.NoError(t, err)
	prevName, err := cipher.Encrypt("Ana")
	require.NoError(t, err)

	prev := &entity.VitalSignRecord{
		PatientID:   "P1",
		PatientName: prevName,
		PatientCPF:  prevCPF,
	}

	req := &dto.IngestVitalSignRequest{
		PatientID:  "P1",
		PatientCPF: "222.222.222-22",
	}

	name, cpf, err := resolver.Resolve(req, prev)
	require.NoError(t, err)
	assert.Equal(t, prevName, name)
	assert.NotEqual(t, prevCPF, cpf)

	decrypted, err := cipher.Decrypt(cpf)
	require.NoError(t, err)
	assert.Equal(t, "22222222222", decrypted)
}

type failingCipher struct{}

func (failingCipher) Encrypt(string) (string, error) {
	return "", errors.New("cipher broken")
}

func TestResolveDigitlessCPFCountsAsNotSupplied(t *testing.T) {
	cipher := newTestCipher(t)
	resolver := NewIdentityResolver(cipher)

	prevName, err := cipher.Encrypt("Ana")
	require.NoError(t, err)
	prevCPF, err := cipher.Encrypt("12345678900")
	require.NoError(t, err)

	prev := &entity.VitalSignRecord{
		PatientID:   "P1",
		PatientName: prevName,
		PatientCPF:  prevCPF,
	}

	req := &dto.IngestVitalSignRequest{PatientID: "P1", PatientCPF: "n/a"}

	name, cpf, err := resolver.Resolve(req, prev)
	require.NoError(t, err)
	assert.Equal(t, prevName, name)
	assert.Equal(t, prevCPF, cpf, "a digit-less document must not overwrite the inherited cpf")

	// With no prior record there is nothing to fall back to.
	name, cpf, err = resolver.Resolve(req, nil)
	require.NoError(t, err)
	assert.Empty(t, name)
	assert.Empty(t, cpf)
}

func TestResolvePropagatesEncryptFailure(t *testing.T) {
	resolver := NewIdentityResolver(failingCipher{})

	_, _, err := resolver.Resolve(&dto.IngestVitalSignRequest{PatientID: "P1", PatientName: "Ana"}, nil)
	assert.ErrorIs(t, err, ErrEncryptionFailed)

	_, _, err = resolver.Resolve(&dto.IngestVitalSignRequest{PatientID: "P1", PatientCPF: "12345678900"}, nil)
	assert.ErrorIs(t, err, ErrEncryptionFailed)
}

func TestResolveNoPriorNoSupplied(t *testing.T) {
	resolver := NewIdentityResolver(newTestCipher(t))

	name, cpf, err := resolver.Resolve(&dto.IngestVitalSignRequest{PatientID: "P1"}, nil)
	require.NoError(t, err)
	assert.Empty(t, name)
	assert.Empty(t, cpf)
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "12345678900", digitsOnly("123.456.789-00"))
	assert.Equal(t, "", digitsOnly("abc"))
	assert.Equal(t, "42", digitsOnly(" 4 2 "))
}
