package main

import (
	"fmt"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/dto"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var loginCmd = &cobra.Command{
	Use:   "login <usuario> <senha>",
	Short: "Autentica e imprime o token de acesso",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		empresa, _ := cmd.Flags().GetString("empresa")
		c, err := novoCliente(true)
		if err != nil {
			return err
		}
		ctx, cancel := contexto(cmd)
		defer cancel()

		resp, err := c.Login(ctx, dto.LoginRequest{Username: args[0], Password: args[1], Empresa: empresa})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%s (%s) autenticado em %s\n", resp.User.Username, resp.User.Papel, resp.User.Empresa)
		fmt.Fprintf(cmd.OutOrStdout(), "export ALMOX_TOKEN=%s\n", resp.AccessToken)
		return nil
	},
}

var hashCmd = &cobra.Command{
	Use:   "hash <senha>",
	Short: "Gera o hash bcrypt de uma senha",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := bcrypt.GenerateFromPassword([]byte(args[0]), 12)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(h))
		return nil
	},
}

func init() {
	loginCmd.Flags().String("empresa", "", "nome da empresa (opcional)")
	rootCmd.AddCommand(loginCmd, hashCmd)
}

// usuarioDoToken reads the identity claims of an access token without
// verifying it; the server still checks every request.
func usuarioDoToken(token string) dto.UsuarioResponse {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return dto.UsuarioResponse{}
	}
	u := dto.UsuarioResponse{}
	u.ID, _ = claims["user_id"].(string)
	u.Username, _ = claims["username"].(string)
	u.Papel, _ = claims["rol"].(string)
	u.EmpresaID, _ = claims["empresa_id"].(string)
	return u
}
