// almoxctl is the command-line client of the warehouse API.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/cliente"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	v       = viper.New()
)

var rootCmd = &cobra.Command{
	Use:           "almoxctl",
	Short:         "Cliente de linha de comando do Almoxarifado Pro",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "arquivo de configuracao (padrao ./almoxctl.env)")
	rootCmd.PersistentFlags().String("api", "http://localhost:8000", "URL base da API")
	rootCmd.PersistentFlags().String("token", "", "token de acesso (ou ALMOX_TOKEN)")
	rootCmd.PersistentFlags().Duration("timeout", 60*time.Second, "tempo maximo por comando")
	_ = v.BindPFlag("api_url", rootCmd.PersistentFlags().Lookup("api"))
	_ = v.BindPFlag("token", rootCmd.PersistentFlags().Lookup("token"))
	_ = v.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
}

func initConfig() {
	v.SetEnvPrefix("ALMOX")
	v.AutomaticEnv()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("almoxctl")
		v.SetConfigType("env")
		v.AddConfigPath(".")
	}
	// a missing config file is fine
	_ = v.ReadInConfig()
}

// novoCliente builds an API client, requiring a token unless anonimo.
func novoCliente(anonimo bool) (*cliente.Cliente, error) {
	c := cliente.New(strings.TrimRight(v.GetString("api_url"), "/"))
	if anonimo {
		return c, nil
	}
	token := v.GetString("token")
	if token == "" {
		return nil, errors.New("token ausente: rode 'almoxctl login' e exporte ALMOX_TOKEN")
	}
	return c.SetToken(token), nil
}

func contexto(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), v.GetDuration("timeout"))
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if os.Getenv("LOG_LEVEL") == "debug" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "erro:", err)
		os.Exit(1)
	}
}
