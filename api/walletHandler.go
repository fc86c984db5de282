package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/fincontrol/finance_backend/models"
	"github.com/fincontrol/finance_backend/models/reports"
	"github.com/fincontrol/finance_backend/utils"
	"github.com/gin-gonic/gin"
)

const walletNotFound = "Carteira não encontrada"

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// monthQuery selects the month used by expense figures; it defaults to the current month.
type monthQuery struct {
	Year  *int `form:"year" binding:"omitempty,min=1900,max=9999"`
	Month *int `form:"month" binding:"omitempty,min=1,max=12"`
}

func (q monthQuery) resolve() (int, time.Month) {
	now := utils.Now()
	year, month := now.Year(), now.Month()
	if q.Year != nil {
		year = *q.Year
	}
	if q.Month != nil {
		month = time.Month(*q.Month)
	}
	return year, month
}

type walletQuery struct {
	monthQuery
	Name string `form:"name"`
}

func listWallets(c *gin.Context) {
	var query walletQuery
	if !bindQuery(c, &query) {
		return
	}
	ctx := c.Request.Context()
	wallets, err := models.ListWallets(ctx, query.Name)
	if err != nil {
		respondError(c, err, "Erro ao recuperar carteiras", walletNotFound)
		return
	}
	year, month := query.resolve()
	results := make([]*models.WalletSummary, 0, len(wallets))
	for _, w := range wallets {
		summary, err := w.Summarize(ctx, year, month)
		if err != nil {
			respondError(c, err, "Erro ao recuperar carteiras", walletNotFound)
			return
		}
		results = append(results, summary)
	}
	respondOK(c, "Carteiras recuperadas com sucesso", results)
}

func createWallet(c *gin.Context) {
	var input models.NewWallet
	if !bindJSON(c, &input) {
		return
	}
	result, err := models.CreateWallet(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err, "Erro ao criar carteira", walletNotFound)
		return
	}
	respondCreated(c, "Carteira criada com sucesso", result)
}

func showWallet(c *gin.Context) {
	id, ok := paramId(c, walletNotFound)
	if !ok {
		return
	}
	var query monthQuery
	if !bindQuery(c, &query) {
		return
	}
	ctx := c.Request.Context()
	wallet, err := models.GetWallet(ctx, id)
	if err != nil {
		respondError(c, err, "Erro ao recuperar carteira", walletNotFound)
		return
	}
	year, month := query.resolve()
	summary, err := wallet.Summarize(ctx, year, month)
	if err != nil {
		respondError(c, err, "Erro ao recuperar carteira", walletNotFound)
		return
	}
	respondOK(c, "Carteira recuperada com sucesso", summary)
}

func updateWallet(c *gin.Context) {
	id, ok := paramId(c, walletNotFound)
	if !ok {
		return
	}
	var input models.NewWallet
	if !bindJSON(c, &input) {
		return
	}
	result, err := models.UpdateWallet(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err, "Erro ao atualizar carteira", walletNotFound)
		return
	}
	respondOK(c, "Carteira atualizada com sucesso", result)
}

func deleteWallet(c *gin.Context) {
	id, ok := paramId(c, walletNotFound)
	if !ok {
		return
	}
	if _, err := models.DeleteWallet(c.Request.Context(), id); err != nil {
		if errors.Is(err, models.ErrWalletHasTransactions) {
			respondFailure(c, http.StatusConflict, "Não é possível excluir uma carteira com transações.")
			return
		}
		respondError(c, err, "Erro ao excluir carteira", walletNotFound)
		return
	}
	respondMessage(c, "Carteira excluída com sucesso")
}

func walletStatement(c *gin.Context) (*reports.WalletStatement, bool) {
	id, ok := paramId(c, walletNotFound)
	if !ok {
		return nil, false
	}
	var query monthQuery
	if !bindQuery(c, &query) {
		return nil, false
	}
	year, month := query.resolve()
	statement, err := reports.GetWalletStatement(c.Request.Context(), id, year, month)
	if err != nil {
		respondError(c, err, "Erro ao gerar extrato da carteira", walletNotFound)
		return nil, false
	}
	return statement, true
}

func showWalletStatement(c *gin.Context) {
	statement, ok := walletStatement(c)
	if !ok {
		return
	}
	respondOK(c, "Extrato da carteira recuperado com sucesso", statement)
}

func exportWalletStatement(c *gin.Context) {
	statement, ok := walletStatement(c)
	if !ok {
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+statement.Filename()+`"`)
	c.Header("Content-Type", xlsxContentType)
	c.Status(http.StatusOK)
	if err := statement.WriteExcel(c.Writer); err != nil {
		_ = c.Error(err)
	}
}
