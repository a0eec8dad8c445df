package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUsuarioDoToken(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "u-1", "username": "ana", "rol": "Editor", "empresa_id": "e-1",
	}).SignedString([]byte("qualquer"))
	require.NoError(t, err)

	u := usuarioDoToken(token)
	assert.Equal(t, "ana", u.Username)
	assert.Equal(t, "Editor", u.Papel)
	assert.Equal(t, "e-1", u.EmpresaID)

	assert.Empty(t, usuarioDoToken("lixo").Papel)
}

func TestHashCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"hash", "segredo123"})
	require.NoError(t, rootCmd.Execute())

	h := strings.TrimSpace(out.String())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(h), []byte("segredo123")))
}

func TestNovoCliente_RequiresToken(t *testing.T) {
	v.Set("token", "")
	_, err := novoCliente(false)
	assert.Error(t, err)

	_, err = novoCliente(true)
	assert.NoError(t, err)
}
