package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/datas"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/dto"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/filtro"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/model"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/painel"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var entregasCmd = &cobra.Command{
	Use:   "entregas",
	Short: "Consulta e atualiza entregas",
}

var entregasListarCmd = &cobra.Command{
	Use:   "listar",
	Short: "Lista entregas filtradas, 50 por pagina",
	Long:  `Carrega as entregas da empresa em uma sessao local e aplica o filtro.
Alterar qualquer filtro volta para a pagina 1.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		fl := cmd.Flags()
		nf, _ := fl.GetString("nf")
		status, _ := fl.GetString("status")
		admin, _ := fl.GetString("status-admin")
		de, _ := fl.GetString("de")
		ate, _ := fl.GetString("ate")
		pagina, _ := fl.GetInt("pagina")

		f := filtro.Filtro{NumeroNF: nf, Status: model.StatusEntrega(status), StatusAdmin: model.StatusAdmin(admin)}
		var err error
		if f.DataInicio, err = datas.Parse(de); err != nil {
			return err
		}
		if f.DataFim, err = datas.Parse(ate); err != nil {
			return err
		}

		c, err := novoCliente(false)
		if err != nil {
			return err
		}
		ctx, cancel := contexto(cmd)
		defer cancel()
		sessao, err := painel.Abrir(ctx, c, usuarioDoToken(v.GetString("token")))
		if err != nil {
			return err
		}
		defer sessao.Encerrar()
		sessao.Filtrar(f)
		p := sessao.IrParaPagina(pagina)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNF\tEMISSAO\tSTATUS\tADMIN\tRETIRANTE")
		for _, e := range p.Itens {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", e.ID, e.NumeroNF, e.DataEmissao.FormatBR(), e.Status, e.StatusAdmin, e.Retirante)
		}
		_ = w.Flush()
		fmt.Fprintf(cmd.OutOrStdout(), "pagina %d de %d (%d registros)\n", p.Pagina, p.TotalPaginas, p.Total)
		return nil
	},
}

var entregasStatusCmd = &cobra.Command{
	Use:   "status <status> <id>...",
	Short: "Altera o status de uma ou mais entregas",
	Long: `Com um unico ID a alteracao e aplicada na sessao local e revertida se a API recusar.
Com varios IDs e feita uma atualizacao em lote com resultado por registro.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		status := model.StatusEntrega(args[0])
		ids := make([]uuid.UUID, 0, len(args)-1)
		for _, a := range args[1:] {
			id, err := uuid.Parse(a)
			if err != nil {
				return fmt.Errorf("ID invalido %q", a)
			}
			ids = append(ids, id)
		}
		retirante, _ := cmd.Flags().GetString("retirante")

		c, err := novoCliente(false)
		if err != nil {
			return err
		}
		ctx, cancel := contexto(cmd)
		defer cancel()

		if len(ids) > 1 {
			resp, err := c.AtualizarStatusLote(ctx, ids, status)
			if err != nil {
				return err
			}
			imprimirLote(cmd, resp)
			return nil
		}

		sessao, err := painel.Abrir(ctx, c, usuarioDoToken(v.GetString("token")))
		if err != nil {
			return err
		}
		defer sessao.Encerrar()

		res := sessao.AlterarStatusEntrega(ctx, ids[0], status, retirante)
		if res.Revertido {
			return fmt.Errorf("alteracao revertida: %w", res.Err)
		}
		if res.Err != nil {
			return res.Err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "NF %s agora esta %s\n", res.Registro.NumeroNF, res.Registro.Status)
		return nil
	},
}

func imprimirLote(cmd *cobra.Command, resp *dto.LoteStatusResponse) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, r := range resp.Resultados {
		situacao := "ok"
		if !r.OK {
			situacao = r.Erro
		}
		fmt.Fprintf(w, "%s\t%s\n", r.ID, situacao)
	}
	_ = w.Flush()
	fmt.Fprintf(cmd.OutOrStdout(), "%d de %d atualizadas\n", resp.Sucesso, resp.Total)
}

func init() {
	fl := entregasListarCmd.Flags()
	fl.String("nf", "", "trecho do numero da NF")
	fl.String("status", "", "status da entrega")
	fl.String("status-admin", "", "status administrativo")
	fl.String("de", "", "emissao a partir de (AAAA-MM-DD ou DD/MM/AAAA)")
	fl.String("ate", "", "emissao ate")
	fl.Int("pagina", 1, "pagina")

	entregasStatusCmd.Flags().String("retirante", "", "quem retirou (obrigatorio para Entregue)")

	entregasCmd.AddCommand(entregasListarCmd, entregasStatusCmd)
	rootCmd.AddCommand(entregasCmd)
}
