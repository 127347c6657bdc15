// warehousectl tareas de operación: migraciones, alta del primer OWNER e importación de catálogos.
//
// Uso:
//
//	warehousectl migrate up
//	warehousectl migrate down --steps 1
//	warehousectl create-owner --username ana --email ana@tienda.co --password ******** --name "Ana"
//	warehousectl import-products --owner ana --store <id> --file productos.csv --charset latin1
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/warehouse-api/internal/application/auth"
	"github.com/jhoicas/warehouse-api/internal/application/authz"
	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/application/usecase"
	"github.com/jhoicas/warehouse-api/internal/infrastructure/csvimport"
	"github.com/jhoicas/warehouse-api/internal/infrastructure/postgres"
	"github.com/jhoicas/warehouse-api/migrations"
	"github.com/jhoicas/warehouse-api/pkg/config"
	"github.com/jhoicas/warehouse-api/pkg/logger"
)

// env conexión y dependencias compartidas por los subcomandos.
type env struct {
	cfg  *config.Config
	log  *logger.Logger
	pool *pgxpool.Pool
}

func (e *env) deps() usecase.Deps {
	return usecase.Deps{
		Repos:  postgres.NewRepositorySet(e.pool),
		Tx:     postgres.NewTxRunner(e.pool, e.log, e.cfg.DB.TxMaxAttempts),
		Policy: authz.NewPolicy(),
		Log:    e.log,
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e := &env{}
	root := &cobra.Command{
		Use:           "warehousectl",
		Short:         "Operación de warehouse-api (migraciones, owners, importación)",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("cargar configuración: %w", err)
			}
			e.cfg = cfg
			e.log = logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Out: os.Stderr})
			e.pool, err = postgres.NewPool(cmd.Context(), cfg.DB)
			if err != nil {
				return fmt.Errorf("conexión a PostgreSQL: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if e.pool != nil {
				e.pool.Close()
			}
		},
	}

	root.AddCommand(migrateCmd(e), createOwnerCmd(e), importProductsCmd(e))

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func migrateCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aplica o revierte migraciones SQL embebidas",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Aplica las migraciones pendientes",
		RunE: func(cmd *cobra.Command, args []string) error {
			applied, err := postgres.Migrate(cmd.Context(), e.pool, migrations.FS)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Println("sin migraciones pendientes")
			}
			for _, name := range applied {
				fmt.Println("aplicada:", name)
			}
			return nil
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Revierte las últimas N migraciones",
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps <= 0 {
				return fmt.Errorf("--steps debe ser > 0")
			}
			reverted, err := postgres.MigrateDown(cmd.Context(), e.pool, migrations.FS, steps)
			if err != nil {
				return err
			}
			for _, name := range reverted {
				fmt.Println("revertida:", name)
			}
			return nil
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "Cantidad de migraciones a revertir")

	cmd.AddCommand(up, down)
	return cmd
}

func createOwnerCmd(e *env) *cobra.Command {
	var in dto.RegisterOwnerRequest
	cmd := &cobra.Command{
		Use:   "create-owner",
		Short: "Crea un OWNER (nuevo tenant) sin pasar por la API",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := e.deps()
			uc := auth.NewAuthUseCase(d.Repos.Users, d.Tx, auth.JWTConfig{}, e.log)
			owner, err := uc.CreateOwner(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Printf("owner creado: id=%s username=%s\n", owner.ID, owner.Username)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Username, "username", "", "Username (requerido)")
	cmd.Flags().StringVar(&in.Email, "email", "", "Email (requerido)")
	cmd.Flags().StringVar(&in.Password, "password", "", "Contraseña, mínimo 8 caracteres (requerido)")
	cmd.Flags().StringVar(&in.Name, "name", "", "Nombre visible (requerido)")
	for _, f := range []string{"username", "email", "password", "name"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func importProductsCmd(e *env) *cobra.Command {
	var ownerName, storeID, file, charset string
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "import-products",
		Short: "Importa productos desde CSV a una tienda del owner",
		Long: "Columnas: sku, name (obligatorias), barcode, price, cost, quantity, min_stock, unit, category_id.\n" +
			"Separador ',' o ';'. Cada fila se crea con las mismas reglas que POST /api/products.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d := e.deps()
			owner, err := d.Repos.Users.FindByUsername(ctx, ownerName)
			if err != nil {
				return err
			}
			if owner == nil {
				return fmt.Errorf("usuario %q no encontrado", ownerName)
			}

			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()
			r, err := csvimport.Decoder(f, charset)
			if err != nil {
				return err
			}
			rows, rowErrs, err := csvimport.ReadProducts(r, storeID)
			if err != nil {
				return err
			}
			for _, re := range rowErrs {
				fmt.Fprintln(os.Stderr, "omitida:", re)
			}
			if dryRun {
				fmt.Printf("%d filas válidas, %d con error (sin cambios)\n", len(rows), len(rowErrs))
				return nil
			}

			uc := usecase.NewProductUseCase(d)
			actor := owner.AsActor()
			created, failed := 0, len(rowErrs)
			for _, in := range rows {
				if _, err := uc.Create(ctx, actor, in); err != nil {
					failed++
					fmt.Fprintf(os.Stderr, "sku %s: %v\n", in.SKU, err)
					continue
				}
				created++
			}
			e.log.Info().Str("owner_id", owner.ID).Str("store_id", storeID).
				Int("created", created).Int("failed", failed).Msg("importación de productos")
			fmt.Printf("%d productos creados, %d fallidos\n", created, failed)
			return nil
		},
	}
	cmd.Flags().StringVar(&ownerName, "owner", "", "Username del OWNER o ADMIN que importa (requerido)")
	cmd.Flags().StringVar(&storeID, "store", "", "ID de la tienda destino (requerido)")
	cmd.Flags().StringVar(&file, "file", "", "Ruta del CSV (requerido)")
	cmd.Flags().StringVar(&charset, "charset", "utf-8", "utf-8 | latin1 | windows-1252")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Sólo valida el archivo")
	for _, f := range []string{"owner", "store", "file"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}
