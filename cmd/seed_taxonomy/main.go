// seed_taxonomy carga la taxonomía inicial del marketplace pasando por las mismas validaciones que la API.
//
// Uso:
//
//	go run ./cmd/seed_taxonomy yaml taxonomy.yaml
//	go run ./cmd/seed_taxonomy dian Municipios.xml --country Colombia
//	go run ./cmd/seed_taxonomy yaml taxonomy.yaml --dry-run
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/carmarket/catalog-api/internal/application/seed"
	"github.com/carmarket/catalog-api/internal/application/usecase"
	"github.com/carmarket/catalog-api/internal/domain/repository"
	"github.com/carmarket/catalog-api/internal/infrastructure/cache"
	"github.com/carmarket/catalog-api/internal/infrastructure/memory"
	"github.com/carmarket/catalog-api/internal/infrastructure/postgres"
	"github.com/carmarket/catalog-api/pkg/config"
	"github.com/carmarket/catalog-api/pkg/logger"
)

const countryFlag = "country"

var dianFlags = map[string]cobraflags.Flag{
	countryFlag: &cobraflags.StringFlag{
		Name:  countryFlag,
		Value: "Colombia",
		Usage: "Nombre del país raíz de los departamentos",
	},
}

var (
	dryRun  bool
	actorID string
)

func main() {
	root := &cobra.Command{
		Use:          "seed_taxonomy",
		Short:        "Carga categorías (marcas/modelos/años, países/estados/ciudades)",
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Valida contra un almacén en memoria sin tocar la base")
	root.PersistentFlags().StringVar(&actorID, "actor", "seed", "ID registrado como createdBy de las categorías creadas")
	root.AddCommand(newYAMLCommand(), newDIANCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newYAMLCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "yaml <archivo>",
		Short: "Siembra un árbol de categorías descrito en YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("abrir YAML: %w", err)
			}
			defer f.Close()
			nodes, err := seed.LoadYAML(f)
			if err != nil {
				return err
			}
			return run(cmd.Context(), nodes)
		},
	}
	return cmd
}

func newDIANCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dian <Municipios.xml>",
		Short: "Siembra departamentos y municipios desde el XML paramétrico de la DIAN",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("abrir XML: %w", err)
			}
			defer f.Close()
			root, err := seed.ParseMunicipios(f, dianFlags[countryFlag].GetString())
			if err != nil {
				return err
			}
			return run(cmd.Context(), []seed.Node{root})
		},
	}
	cobraflags.RegisterMap(cmd, dianFlags)
	return cmd
}

func run(ctx context.Context, nodes []seed.Node) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	var repo repository.CategoryRepository
	if dryRun || cfg.DB.Driver == "memory" {
		repo = memory.NewCategoryRepository()
	} else {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return err
		}
		defer pool.Close()
		if cfg.DB.Migrate {
			if err := postgres.Migrate(ctx, pool, log.Component("migrate")); err != nil {
				return err
			}
		}
		repo = postgres.NewCategoryRepository(pool)

		// Las escrituras del seed invalidan los listados que la API tenga cacheados.
		var closeCache func()
		repo, closeCache = cache.Wrap(repo, cfg.Redis, log.Component("cache"))
		defer closeCache()
	}

	uc := usecase.NewCategoryUseCase(repo, log.Component("categories"))
	seeder := seed.NewSeeder(uc, actorID, log.Component("seed"))
	st, err := seeder.Apply(ctx, nodes)
	if err != nil {
		log.Error().Err(err).Int("created", st.Created).Int("reused", st.Reused).Msg("seed interrumpido")
		return err
	}
	log.Info().
		Bool("dry_run", dryRun).
		Int("created", st.Created).
		Int("reused", st.Reused).
		Msg("seed completado")
	return nil
}
