package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/MaksimGMD/spender/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportHandler streams the caller's transaction history as CSV or XLSX.
type ExportHandler struct {
	DB *gorm.DB
}

func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{DB: db}
}

type exportRow struct {
	Date         time.Time
	Amount       decimal.Decimal
	Description  string
	AccountName  string
	CategoryName string
	Currency     string
}

var exportHeaders = []string{"Дата", "Счёт", "Категория", "Сумма", "Валюта", "Описание"}

func (h *ExportHandler) rows(userID uint) ([]exportRow, error) {
	var rows []exportRow
	err := h.DB.Table("transactions").
		Select("transactions.date, transactions.amount, transactions.description, "+
			"accounts.name AS account_name, accounts.currency, categories.name AS category_name").
		Joins("JOIN accounts ON accounts.id = transactions.account_id").
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("accounts.user_id = ?", userID).
		Order("transactions.date DESC, transactions.id DESC").
		Scan(&rows).Error
	return rows, err
}

// ExportCSV writes the transaction history as CSV.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	rows, err := h.rows(user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Не удалось загрузить транзакции")
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.csv\"",
		time.Now().Format("20060102")))

	// UTF-8 BOM so Excel detects the encoding
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeaders)
	for _, r := range rows {
		writer.Write([]string{
			r.Date.Format("2006-01-02"),
			r.AccountName,
			r.CategoryName,
			r.Amount.StringFixed(2),
			r.Currency,
			r.Description,
		})
	}
}

// ExportXLSX writes the transaction history as an Excel workbook.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	rows, err := h.rows(user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Не удалось загрузить транзакции")
		return
	}

	f := excelize.NewFile()
	sheetName := "Транзакции"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Не удалось создать лист")
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, header := range exportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for idx, r := range rows {
		row := idx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), r.Date.Format("2006-01-02"))
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), r.AccountName)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), r.CategoryName)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), r.Amount.StringFixed(2))
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), r.Currency)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), r.Description)
	}

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "C", 18)
	f.SetColWidth(sheetName, "D", "E", 10)
	f.SetColWidth(sheetName, "F", "F", 30)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Не удалось выгрузить файл")
	}
}
