package api

import (
	"errors"
	"net/http"

	"github.com/fincontrol/finance_backend/models"
	"github.com/gin-gonic/gin"
)

const companyNotFound = "Empresa não encontrada"

type companyResource struct {
	*models.Company
	FormattedCnpj     *string `json:"formatted_cnpj"`
	FormattedTelefone *string `json:"formatted_telefone"`
}

func newCompanyResource(c *models.Company) companyResource {
	return companyResource{Company: c, FormattedCnpj: c.FormattedCnpj(), FormattedTelefone: c.FormattedTelefone()}
}

// showCompanyInstance returns the single company, creating the default one on first use.
func showCompanyInstance(c *gin.Context) {
	result, err := models.GetCompanyInstance(c.Request.Context())
	if err != nil {
		respondError(c, err, "Erro ao recuperar empresa", companyNotFound)
		return
	}
	respondOK(c, "Empresa recuperada com sucesso", newCompanyResource(result))
}

func listCompanies(c *gin.Context) {
	companies, err := models.ListCompanies(c.Request.Context())
	if err != nil {
		respondError(c, err, "Erro ao recuperar empresas", companyNotFound)
		return
	}
	results := make([]companyResource, 0, len(companies))
	for _, company := range companies {
		results = append(results, newCompanyResource(company))
	}
	respondOK(c, "Empresas recuperadas com sucesso", results)
}

func createCompany(c *gin.Context) {
	var input models.NewCompany
	if !bindJSON(c, &input) {
		return
	}
	result, err := models.CreateCompany(c.Request.Context(), &input)
	if err != nil {
		if errors.Is(err, models.ErrCompanyAlreadyExists) {
			respondFailure(c, http.StatusConflict, "Já existe uma empresa cadastrada.")
			return
		}
		respondError(c, err, "Erro ao criar empresa", companyNotFound)
		return
	}
	respondCreated(c, "Empresa criada com sucesso", newCompanyResource(result))
}

func showCompany(c *gin.Context) {
	id, ok := paramId(c, companyNotFound)
	if !ok {
		return
	}
	result, err := models.GetCompany(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Erro ao recuperar empresa", companyNotFound)
		return
	}
	respondOK(c, "Empresa recuperada com sucesso", newCompanyResource(result))
}

func updateCompany(c *gin.Context) {
	id, ok := paramId(c, companyNotFound)
	if !ok {
		return
	}
	var input models.NewCompany
	if !bindJSON(c, &input) {
		return
	}
	result, err := models.UpdateCompany(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err, "Erro ao atualizar empresa", companyNotFound)
		return
	}
	respondOK(c, "Empresa atualizada com sucesso", newCompanyResource(result))
}

func deleteCompany(c *gin.Context) {
	id, ok := paramId(c, companyNotFound)
	if !ok {
		return
	}
	if _, err := models.DeleteCompany(c.Request.Context(), id); err != nil {
		respondError(c, err, "Erro ao excluir empresa", companyNotFound)
		return
	}
	respondMessage(c, "Empresa excluída com sucesso")
}
