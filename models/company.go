package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fincontrol/finance_backend/config"
	"github.com/fincontrol/finance_backend/utils"
	"gorm.io/gorm"
)

const DefaultCompanyName = "Minha Empresa"

type Company struct {
	ID                int       `gorm:"primary_key" json:"id"`
	Name              string    `gorm:"size:255;not null" json:"name"`
	Cnpj              *string   `gorm:"size:18" json:"cnpj"`
	RazaoSocial       *string   `gorm:"size:255" json:"razao_social"`
	InscricaoEstadual *string   `gorm:"size:50" json:"inscricao_estadual"`
	Telefone          *string   `gorm:"size:20" json:"telefone"`
	Endereco          *string   `gorm:"type:text" json:"endereco"`
	Email             *string   `gorm:"size:255" json:"email"`
	PessoaResponsavel *string   `gorm:"size:255" json:"pessoa_responsavel"`
	Website           *string   `gorm:"size:255" json:"website"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCompany struct {
	Name              string  `json:"name" binding:"required,max=255"`
	Cnpj              *string `json:"cnpj" binding:"omitempty,max=18"`
	RazaoSocial       *string `json:"razao_social" binding:"omitempty,max=255"`
	InscricaoEstadual *string `json:"inscricao_estadual" binding:"omitempty,max=50"`
	Telefone          *string `json:"telefone" binding:"omitempty,max=20"`
	Endereco          *string `json:"endereco"`
	Email             *string `json:"email" binding:"omitempty,email,max=255"`
	PessoaResponsavel *string `json:"pessoa_responsavel" binding:"omitempty,max=255"`
	Website           *string `json:"website" binding:"omitempty,url,max=255"`
}

var ErrCompanyAlreadyExists = errors.New("company already exists")

var (
	cnpjWeights1 = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeights2 = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

func cnpjDigit(digits string, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += int(digits[i]-'0') * w
	}
	if r := sum % 11; r >= 2 {
		return 11 - r
	}
	return 0
}

// ValidateCnpj accepts an empty value, otherwise 14 digits with valid check digits.
// Punctuation is ignored.
func ValidateCnpj(cnpj string) bool {
	if strings.TrimSpace(cnpj) == "" {
		return true
	}
	digits := utils.OnlyDigits(cnpj)
	if len(digits) != 14 {
		return false
	}
	return int(digits[12]-'0') == cnpjDigit(digits, cnpjWeights1) &&
		int(digits[13]-'0') == cnpjDigit(digits, cnpjWeights2)
}

// FormatCnpj renders 00.000.000/0000-00, or returns the input when it is not 14 digits.
func FormatCnpj(cnpj string) string {
	digits := utils.OnlyDigits(cnpj)
	if len(digits) != 14 {
		return cnpj
	}
	return digits[0:2] + "." + digits[2:5] + "." + digits[5:8] + "/" + digits[8:12] + "-" + digits[12:14]
}

func (c *Company) FormattedCnpj() *string {
	if c.Cnpj == nil || *c.Cnpj == "" {
		return nil
	}
	f := FormatCnpj(*c.Cnpj)
	return &f
}

func (c *Company) FormattedTelefone() *string {
	if c.Telefone == nil || *c.Telefone == "" {
		return nil
	}
	f := utils.FormatPhoneNumber(*c.Telefone, utils.CountryCode)
	return &f
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	return utils.NilIfEmpty(strings.TrimSpace(*s))
}

func (input *NewCompany) validate() error {
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	verr := utils.NewValidationError()
	if strings.TrimSpace(input.Name) == "" {
		verr.Add("name", "O campo nome é obrigatório.")
	}
	if input.Cnpj != nil && !ValidateCnpj(*input.Cnpj) {
		verr.Add("cnpj", "O CNPJ informado é inválido.")
	}
	if tel := trimmedOrNil(input.Telefone); tel != nil {
		if err := utils.ValidatePhoneNumber(*tel, utils.CountryCode); err != nil {
			verr.Add("telefone", "O telefone informado é inválido.")
		}
	}
	return verr.OrNil()
}

func (input *NewCompany) apply(c *Company) {
	c.Name = strings.TrimSpace(input.Name)
	c.Cnpj = nil
	if cnpj := trimmedOrNil(input.Cnpj); cnpj != nil {
		digits := utils.OnlyDigits(*cnpj)
		c.Cnpj = &digits
	}
	c.RazaoSocial = trimmedOrNil(input.RazaoSocial)
	c.InscricaoEstadual = trimmedOrNil(input.InscricaoEstadual)
	c.Telefone = trimmedOrNil(input.Telefone)
	c.Endereco = trimmedOrNil(input.Endereco)
	c.Email = nil
	if email := trimmedOrNil(input.Email); email != nil {
		lower := strings.ToLower(*email)
		c.Email = &lower
	}
	c.PessoaResponsavel = trimmedOrNil(input.PessoaResponsavel)
	c.Website = trimmedOrNil(input.Website)
}

// GetCompanyInstance returns the first company, creating "Minha Empresa" when none exists.
func GetCompanyInstance(ctx context.Context) (*Company, error) {
	db := config.GetDB()
	var company Company
	err := db.WithContext(ctx).Order("id").First(&company).Error
	if err == nil {
		return &company, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	company = Company{Name: DefaultCompanyName}
	if err := db.WithContext(ctx).Create(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

// CreateCompany is refused once a company row exists.
func CreateCompany(ctx context.Context, input *NewCompany) (*Company, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	count, err := utils.ResourceCountWhere[Company](ctx, "1 = 1")
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrCompanyAlreadyExists
	}
	var company Company
	input.apply(&company)
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func UpdateCompany(ctx context.Context, id int, input *NewCompany) (*Company, error) {
	company, err := utils.FetchModel[Company](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}
	input.apply(company)
	db := config.GetDB()
	if err := db.WithContext(ctx).Save(company).Error; err != nil {
		return nil, err
	}
	return company, nil
}

func DeleteCompany(ctx context.Context, id int) (*Company, error) {
	company, err := utils.FetchModel[Company](ctx, id)
	if err != nil {
		return nil, err
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(company).Error; err != nil {
		return nil, err
	}
	return company, nil
}

func GetCompany(ctx context.Context, id int) (*Company, error) {
	return utils.FetchModel[Company](ctx, id)
}

func ListCompanies(ctx context.Context) ([]*Company, error) {
	db := config.GetDB()
	var results []*Company
	if err := db.WithContext(ctx).Order("id").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
