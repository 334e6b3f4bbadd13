package funcionario

import (
	"strings"

	errors "github.com/frahmantamala/funcionarios/internal"
	"github.com/frahmantamala/funcionarios/internal/core/common/validation"
	"github.com/frahmantamala/funcionarios/internal/i18n"
)

// CreateFuncionarioDTO is the payload accepted by Create.
type CreateFuncionarioDTO struct {
	Nome     string  `json:"nome"`
	Cargo    string  `json:"cargo"`
	Endereco *string `json:"endereco,omitempty"`
	Email    *string `json:"email,omitempty"`
	Salario  float64 `json:"salario"`
}

// newRow is what gets inserted. Optional fields are sent as null when blank.
type newRow struct {
	Nome     string  `json:"nome"`
	Cargo    string  `json:"cargo"`
	Endereco *string `json:"endereco"`
	Email    *string `json:"email"`
	Salario  float64 `json:"salario"`
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// Normalize trims every string and turns blank optional fields into nil.
func (d CreateFuncionarioDTO) Normalize() CreateFuncionarioDTO {
	return CreateFuncionarioDTO{
		Nome:     strings.TrimSpace(d.Nome),
		Cargo:    strings.TrimSpace(d.Cargo),
		Endereco: trimOptional(d.Endereco),
		Email:    trimOptional(d.Email),
		Salario:  d.Salario,
	}
}

// Validate expects a normalized DTO. Rules run in order and the first failure
// is returned.
func (d CreateFuncionarioDTO) Validate(tr *i18n.Translator) *errors.AppError {
	email := ""
	if d.Email != nil {
		email = *d.Email
	}

	v := validation.NewValidator()
	v.Field("nome", d.Nome).Required(tr.T(i18n.FuncNameRequired), errors.ErrCodeNameRequired)
	v.Field("cargo", d.Cargo).Required(tr.T(i18n.FuncRoleRequired), errors.ErrCodeRoleRequired)
	v.Field("salario", d.Salario).Positive(tr.T(i18n.FuncSalaryPositive), errors.ErrCodeInvalidSalary)
	v.Field("email", email).Email(tr.T(i18n.FuncInvalidEmail), errors.ErrCodeInvalidEmail)
	return v.Validate()
}

func (d CreateFuncionarioDTO) row() newRow {
	return newRow{
		Nome:     d.Nome,
		Cargo:    d.Cargo,
		Endereco: d.Endereco,
		Email:    d.Email,
		Salario:  d.Salario,
	}
}
