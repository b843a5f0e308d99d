// Command buscacnpj searches for businesses of a given type in a given
// city, cross-references them against the CNPJ registry and writes the
// result to an .xlsx file in the working directory.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"buscacnpj/internal/config"
	"buscacnpj/pipeline"
	"buscacnpj/places"
	"buscacnpj/registry"
	"buscacnpj/report"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	tipo, cidade := argOrEmpty(1), argOrEmpty(2)
	tipo, cidade = promptIfMissing(tipo, cidade)
	if tipo == "" || cidade == "" {
		return fmt.Errorf("tipo e localizacao sao obrigatorios")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	placesClient := places.NewClient(cfg.GoogleAPIKey, cfg.RequestTimeout)
	registryClient := registry.NewClient(cfg.CNPJAAPIKey, "", cfg.RequestTimeout)
	pipe := pipeline.New(placesClient, registryClient, logger)

	result, err := pipe.Run(ctx, tipo, cidade)
	if err != nil {
		return err
	}
	if len(result.Rows) == 0 {
		fmt.Println("Nenhum resultado encontrado.")
		return nil
	}

	printRows(result.Rows)

	if err := report.WriteFile(result.Rows, result.Filename); err != nil {
		return fmt.Errorf("falha ao salvar planilha: %w", err)
	}
	fmt.Printf("Arquivo Excel salvo em: %s\n", result.Filename)
	return nil
}

// printRows echoes the cross-reference result to the console, one numbered
// block per output row.
func printRows(rows []report.Row) {
	for i, row := range rows {
		fmt.Printf("[%d]\n", i+1)
		fmt.Printf("Empresa (Google): %s\n", row.PlaceName)
		fmt.Printf("Endereco: %s\n", row.Address)
		fmt.Printf("CNPJ: %s\n", row.TaxID)
		fmt.Printf("Empresa: %s\n", row.CompanyName)
		fmt.Printf("Proprietario: %s\n", row.Owner)
		fmt.Printf("Email: %s\n", row.Email)
		fmt.Printf("Telefone: %s\n", row.CompanyPhone)
		if i < len(rows)-1 {
			fmt.Println(strings.Repeat("-", 20))
		}
	}
}

// promptIfMissing asks interactively for whichever argument was not given
// on the command line.
func promptIfMissing(tipo, cidade string) (string, string) {
	reader := bufio.NewReader(os.Stdin)
	if tipo == "" {
		fmt.Print("Digite o tipo de empresa (ex: restaurantes): ")
		tipo = readLine(reader)
	}
	if cidade == "" {
		fmt.Print("Digite a localizacao (ex: santos): ")
		cidade = readLine(reader)
	}
	return tipo, cidade
}

func readLine(reader *bufio.Reader) string {
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimSpace(line)
}

func argOrEmpty(i int) string {
	if len(os.Args) > i {
		return strings.TrimSpace(os.Args[i])
	}
	return ""
}
