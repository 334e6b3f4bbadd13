package funcionario_test

import (
	"context"
	"time"

	"github.com/frahmantamala/funcionarios/internal/backend"
	"github.com/frahmantamala/funcionarios/internal/backend/local"
	"github.com/frahmantamala/funcionarios/internal/funcionario"
	"github.com/frahmantamala/funcionarios/internal/i18n"
	"github.com/frahmantamala/funcionarios/pkg/logger"
	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const schema = `
CREATE TABLE funcionarios (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	nome TEXT NOT NULL,
	cargo TEXT NOT NULL,
	endereco TEXT,
	email TEXT UNIQUE,
	salario DOUBLE PRECISION NOT NULL CHECK (salario > 0),
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE profiles (
	id TEXT PRIMARY KEY,
	nome_completo TEXT,
	avatar_url TEXT,
	updated_at TIMESTAMP
);`

var _ = Describe("Store on the local backend", func() {
	var (
		ctx    context.Context
		db     *sqlx.DB
		client backend.Client
		store  *funcionario.Store
	)

	BeforeEach(func() {
		ctx = context.Background()

		gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := gormDB.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		DeferCleanup(sqlDB.Close)

		db = sqlx.NewDb(sqlDB, "sqlite3")
		_, err = db.Exec(schema)
		Expect(err).NotTo(HaveOccurred())

		b := local.New(gormDB, db, local.Options{
			JWTSecret:       "integration-secret-integration-secret",
			AccessTokenTTL:  time.Hour,
			RefreshTokenTTL: 24 * time.Hour,
			BCryptCost:      bcrypt.MinCost,
			AutoConfirm:     true,
			RequireAuth:     true,
		}, logger.Discard())
		Expect(b.AutoMigrate()).To(Succeed())

		client = b.NewClient()
		DeferCleanup(client.Close)
		store = funcionario.NewStore(client, i18n.New("pt-BR"), logger.Discard())
	})

	It("should refuse inserts without a session", func() {
		_, err := store.Create(ctx, funcionario.CreateFuncionarioDTO{Nome: "Ana", Cargo: "Analista", Salario: 100})

		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(Equal("Sem permissão para criar funcionário"))
	})

	Context("when signed in", func() {
		BeforeEach(func() {
			_, err := client.SignUp(ctx, "gestor@empresa.com", "secret1")
			Expect(err).NotTo(HaveOccurred())
		})

		It("should create, list and detect duplicates", func() {
			email := "ana@empresa.com"
			created, err := store.Create(ctx, funcionario.CreateFuncionarioDTO{Nome: "Ana", Cargo: "Analista", Email: &email, Salario: 3500.75})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.ID).To(BeNumerically(">", 0))
			Expect(created.Salario).To(Equal(3500.75))
			Expect(created.CreatedAt).NotTo(BeNil())

			_, err = store.Create(ctx, funcionario.CreateFuncionarioDTO{Nome: "Outra Ana", Cargo: "Analista", Email: &email, Salario: 10})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(Equal("Já existe um funcionário com estes dados"))

			items, err := store.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(HaveLen(1))
			Expect(items[0].Email).To(HaveValue(Equal(email)))
		})
	})

	It("should report a missing table", func() {
		_, err := db.Exec("DROP TABLE funcionarios")
		Expect(err).NotTo(HaveOccurred())

		_, err = store.List(ctx)

		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(Equal("Tabela funcionários não existe no banco de dados"))
	})
})
