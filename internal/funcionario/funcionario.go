package funcionario

import (
	"strings"
	"time"
)

// Funcionario is a row of the funcionarios table. ID and CreatedAt are
// assigned by the backend.
type Funcionario struct {
	ID        int64      `json:"id"`
	Nome      string     `json:"nome"`
	Cargo     string     `json:"cargo"`
	Endereco  *string    `json:"endereco"`
	Email     *string    `json:"email"`
	Salario   float64    `json:"salario"`
	CreatedAt *time.Time `json:"created_at"`
}

// Filters narrows a local search. Empty fields match everything.
type Filters struct {
	Nome  string
	Cargo string
	Email string
}

func (f Filters) Empty() bool {
	return f.Nome == "" && f.Cargo == "" && f.Email == ""
}

func containsFold(value, sub string) bool {
	if sub == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(sub))
}

// Matches reports whether every non-empty filter is a case-insensitive
// substring of the matching field.
func (f Filters) Matches(fn *Funcionario) bool {
	email := ""
	if fn.Email != nil {
		email = *fn.Email
	}
	if f.Email != "" && fn.Email == nil {
		return false
	}
	return containsFold(fn.Nome, f.Nome) &&
		containsFold(fn.Cargo, f.Cargo) &&
		containsFold(email, f.Email)
}
