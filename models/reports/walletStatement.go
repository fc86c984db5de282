package reports

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fincontrol/finance_backend/models"
	"github.com/xuri/excelize/v2"
)

const statementSheet = "Extrato"

var statementHeadings = []string{"Data", "Item", "Tipo", "Tipo de Despesa", "Método de Pagamento", "Status", "Valor"}

// WalletStatement is the month of a wallet: its transactions and derived figures.
type WalletStatement struct {
	Summary      *models.WalletSummary `json:"summary"`
	Transactions []*models.Transaction `json:"transactions"`
}

func GetWalletStatement(ctx context.Context, walletId int, year int, month time.Month) (*WalletStatement, error) {
	wallet, err := models.GetWallet(ctx, walletId)
	if err != nil {
		return nil, err
	}
	summary, err := wallet.Summarize(ctx, year, month)
	if err != nil {
		return nil, err
	}
	y, m := year, int(month)
	transactions, err := models.ListTransactions(ctx, &models.TransactionFilter{
		WalletId: &walletId,
		Year:     &y,
		Month:    &m,
	})
	if err != nil {
		return nil, err
	}
	return &WalletStatement{Summary: summary, Transactions: transactions}, nil
}

func (s *WalletStatement) Filename() string {
	return fmt.Sprintf("extrato-carteira-%d-%04d-%02d.xlsx", s.Summary.ID, s.Summary.Year, s.Summary.Month)
}

func setRow(f *excelize.File, row int, values ...interface{}) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(statementSheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func labelOf[T interface{ Label() string }](v *T) string {
	if v == nil {
		return ""
	}
	return (*v).Label()
}

// WriteExcel renders the statement as an xlsx workbook: one row per
// transaction followed by the wallet figures for the month.
func (s *WalletStatement) WriteExcel(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", statementSheet); err != nil {
		return err
	}

	title := fmt.Sprintf("%s - %02d/%04d", s.Summary.Name, s.Summary.Month, s.Summary.Year)
	if err := setRow(f, 1, title); err != nil {
		return err
	}
	headings := make([]interface{}, len(statementHeadings))
	for i, h := range statementHeadings {
		headings[i] = h
	}
	if err := setRow(f, 3, headings...); err != nil {
		return err
	}

	row := 4
	for _, t := range s.Transactions {
		err := setRow(f, row,
			t.Date.Time().Format("02/01/2006"),
			t.Item,
			t.Type.Label(),
			labelOf(t.ExpenseType),
			labelOf(t.PaymentMethod),
			t.Status.Label(),
			t.Value.InexactFloat64(),
		)
		if err != nil {
			return err
		}
		row++
	}

	row++
	figures := []struct {
		label string
		value float64
	}{
		{"Orçamento", s.Summary.Budget.InexactFloat64()},
		{"Despesas do mês", s.Summary.ExpenseTransactionsValue.InexactFloat64()},
		{"Orçamento restante do mês", s.Summary.RemainingBudgetForMonth.InexactFloat64()},
		{"Em aberto", s.Summary.OpenTransactionsValue.InexactFloat64()},
		{"Pago", s.Summary.PaidTransactionsValue.InexactFloat64()},
		{"Total", s.Summary.TotalValue.InexactFloat64()},
	}
	for _, fig := range figures {
		if err := setRow(f, row, fig.label, fig.value); err != nil {
			return err
		}
		row++
	}

	if err := f.SetColWidth(statementSheet, "A", "A", 14); err != nil {
		return err
	}
	if err := f.SetColWidth(statementSheet, "B", "B", 40); err != nil {
		return err
	}
	_, err := f.WriteTo(w)
	return err
}
