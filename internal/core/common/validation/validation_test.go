package validation_test

import (
	"testing"

	errors "github.com/frahmantamala/funcionarios/internal"
	"github.com/frahmantamala/funcionarios/internal/core/common/validation"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestValidation(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Validation Suite")
}

var _ = Describe("Validation", func() {
	Describe("IsEmail", func() {
		DescribeTable("email format",
			func(email string, valid bool) {
				Expect(validation.IsEmail(email)).To(Equal(valid))
			},
			Entry("plain address", "ana@empresa.com", true),
			Entry("subdomain", "ana@rh.empresa.com.br", true),
			Entry("missing at", "ana.empresa.com", false),
			Entry("missing domain dot", "ana@empresa", false),
			Entry("whitespace", "ana @empresa.com", false),
			Entry("double at", "ana@@empresa.com", false),
			Entry("empty", "", false),
		)
	})

	Describe("builder", func() {
		It("should return the first failing rule in declaration order", func() {
			v := validation.NewValidator()
			v.Field("nome", "  ").Required("Nome é obrigatório", errors.ErrCodeNameRequired)
			v.Field("cargo", "").Required("Cargo é obrigatório", errors.ErrCodeRoleRequired)

			err := v.Validate()
			Expect(err).NotTo(BeNil())
			Expect(err.Error()).To(Equal("Nome é obrigatório"))
			Expect(err.Code).To(Equal(errors.ErrCodeNameRequired))
		})

		It("should carry the failing field in the details", func() {
			v := validation.NewValidator()
			v.Field("salario", 0.0).Positive("Salário deve ser maior que zero", errors.ErrCodeInvalidSalary)

			err := v.Validate()
			Expect(err).NotTo(BeNil())
			details := err.Details.(errors.ValidationErrors)
			Expect(details.Errors).To(ConsistOf(errors.ValidationError{
				Field:   "salario",
				Message: "Salário deve ser maior que zero",
				Code:    string(errors.ErrCodeInvalidSalary),
			}))
			Expect(err.GetDetailedMessage()).To(Equal("Salário deve ser maior que zero"))
		})

		It("should let optional emails be empty", func() {
			var empty *string
			v := validation.NewValidator()
			v.Field("email", empty).Email("bad", errors.ErrCodeInvalidEmail)
			Expect(v.Validate()).To(BeNil())
		})

		It("should reject negative and non numeric salaries", func() {
			v := validation.NewValidator()
			v.Field("salario", -10.5).Positive("bad", errors.ErrCodeInvalidSalary)
			Expect(v.Validate()).NotTo(BeNil())

			v = validation.NewValidator()
			v.Field("salario", "100").Positive("bad", errors.ErrCodeInvalidSalary)
			Expect(v.Validate()).NotTo(BeNil())
		})

		It("should count runes for minimum length", func() {
			v := validation.NewValidator()
			v.Field("password", "ãéíõú1").MinLength(6, "short", errors.ErrCodePasswordTooShort)
			Expect(v.Validate()).To(BeNil())
		})

		It("should compare confirmation values", func() {
			v := validation.NewValidator()
			v.Field("confirm_password", "abcdef").Equals("abcdeg", "mismatch", errors.ErrCodePasswordMismatch)
			Expect(v.Validate().Error()).To(Equal("mismatch"))
		})
	})
})
