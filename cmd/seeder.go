package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/frahmantamala/funcionarios/internal"
	"github.com/frahmantamala/funcionarios/internal/backend"
	"github.com/frahmantamala/funcionarios/internal/funcionario"
	"github.com/frahmantamala/funcionarios/internal/i18n"
	"github.com/frahmantamala/funcionarios/pkg/logger"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var seedFile string

type seedUser struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

type seedFuncionario struct {
	Nome     string  `yaml:"nome"`
	Cargo    string  `yaml:"cargo"`
	Endereco *string `yaml:"endereco"`
	Email    *string `yaml:"email"`
	Salario  float64 `yaml:"salario"`
}

type seedData struct {
	Users        []seedUser        `yaml:"users"`
	Funcionarios []seedFuncionario `yaml:"funcionarios"`
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the local backend with accounts and funcionarios for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		if cfg.Backend.Mode != internal.BackendModeLocal {
			log.Fatalf("seeding needs backend.mode=%s, got %q", internal.BackendModeLocal, cfg.Backend.Mode)
		}

		raw, err := os.ReadFile(seedFile)
		if err != nil {
			log.Fatalf("failed to read seed file: %v", err)
		}
		var data seedData
		if err := yaml.Unmarshal(raw, &data); err != nil {
			log.Fatalf("failed to parse seed file: %v", err)
		}
		if len(data.Users) == 0 {
			log.Fatalf("seed file needs at least one user to own the inserts")
		}

		lg := logger.LoggerWrapper()
		deps, err := initBackend(cfg, lg)
		if err != nil {
			log.Fatalf("failed to init backend: %v", err)
		}
		defer deps.Close()

		if clearData {
			for _, table := range []string{backend.TableFuncionarios, backend.TableProfiles, "auth_users"} {
				if _, err := deps.DB.ExecContext(ctx, "DELETE FROM "+table); err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		for _, u := range data.Users {
			if _, err := deps.Local.CreateUser(ctx, u.Email, u.Password, true); err != nil {
				if be, ok := backend.AsError(err); ok && be.Message == backend.MsgUserRegistered {
					fmt.Println("user already exists:", u.Email)
					continue
				}
				log.Fatalf("failed to create user %s: %v", u.Email, err)
			}
			fmt.Println("Seeded user:", u.Email)
		}

		// Rows are written through a signed-in client so they pass the same
		// checks as the API.
		client := deps.Local.NewClient()
		defer client.Close()
		owner := data.Users[0]
		if _, err := client.SignInWithPassword(ctx, owner.Email, owner.Password); err != nil {
			log.Fatalf("failed to sign in as %s: %v", owner.Email, err)
		}

		store := funcionario.NewStore(client, i18n.New(cfg.Locale), lg)
		for _, f := range data.Funcionarios {
			created, err := store.Create(ctx, funcionario.CreateFuncionarioDTO{
				Nome:     f.Nome,
				Cargo:    f.Cargo,
				Endereco: f.Endereco,
				Email:    f.Email,
				Salario:  f.Salario,
			})
			if err != nil {
				if appErr, ok := internal.IsAppError(err); ok && appErr.StatusCode == 409 {
					fmt.Println("funcionario already exists:", f.Nome)
					continue
				}
				log.Fatalf("failed to insert funcionario %s: %v", f.Nome, err)
			}
			fmt.Printf("Seeded funcionario %d: %s\n", created.ID, created.Nome)
		}

		fmt.Println("Funcionarios seeded successfully")
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "db/seed.yml", "seed data file")
}
