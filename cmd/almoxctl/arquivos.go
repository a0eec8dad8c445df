package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/datas"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/dto"

	"github.com/spf13/cobra"
)

var importarCmd = &cobra.Command{
	Use:   "importar <arquivo.xlsx|arquivo.txt>",
	Short: "Importa entregas de uma planilha ou de texto colado",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := novoCliente(false)
		if err != nil {
			return err
		}
		ctx, cancel := contexto(cmd)
		defer cancel()

		var resp *dto.ImportacaoResponse
		if strings.EqualFold(filepath.Ext(args[0]), ".xlsx") {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			resp, err = c.ImportarPlanilha(ctx, filepath.Base(args[0]), f)
			if err != nil {
				return err
			}
		} else {
			texto, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if resp, err = c.ImportarTexto(ctx, string(texto)); err != nil {
				return err
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%d linhas, %d criadas, %d com erro\n", resp.TotalLinhas, resp.Criadas, resp.Erros)
		for _, e := range resp.Detalhes {
			fmt.Fprintf(cmd.OutOrStdout(), "  linha %d (NF %s): %s\n", e.Linha, e.NumeroNF, e.Motivo)
		}
		return nil
	},
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Copia de seguranca dos registros da empresa",
}

var backupExportarCmd = &cobra.Command{
	Use:   "exportar",
	Short: "Baixa o backup JSON",
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := novoCliente(false)
		if err != nil {
			return err
		}
		ctx, cancel := contexto(cmd)
		defer cancel()
		nome, data, err := c.ExportarBackup(ctx)
		if err != nil {
			return err
		}
		return salvar(cmd, nome, data)
	},
}

var relatorioCmd = &cobra.Command{
	Use:   "relatorio <inicio> <fim>",
	Short: "Baixa o fechamento mensal em xlsx",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		inicio, err := datas.Parse(args[0])
		if err != nil {
			return err
		}
		fim, err := datas.Parse(args[1])
		if err != nil {
			return err
		}
		c, err := novoCliente(false)
		if err != nil {
			return err
		}
		ctx, cancel := contexto(cmd)
		defer cancel()
		nome, data, err := c.RelatorioMensal(ctx, inicio.String(), fim.String())
		if err != nil {
			return err
		}
		return salvar(cmd, nome, data)
	},
}

// salvar writes data into the --saida directory under the server's file name.
func salvar(cmd *cobra.Command, nome string, data []byte) error {
	dir, _ := cmd.Flags().GetString("saida")
	destino := filepath.Join(dir, filepath.Base(nome))
	if err := os.WriteFile(destino, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "gravado %s (%d bytes)\n", destino, len(data))
	return nil
}

func init() {
	backupExportarCmd.Flags().String("saida", ".", "diretorio de destino")
	relatorioCmd.Flags().String("saida", ".", "diretorio de destino")
	backupCmd.AddCommand(backupExportarCmd)
	rootCmd.AddCommand(importarCmd, backupCmd, relatorioCmd)
}
