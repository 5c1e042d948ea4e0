package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/moneytrail/moneytrail/internal/model"
)

// DailyHeader is the CSV header of the daily export.
const DailyHeader = "date,deposit,withdraw,net,last_balance,cum_deposit,cum_withdraw"

// TransactionsHeader is the CSV header of the transactions export.
const TransactionsHeader = "row,timestamp,date,type,amount,balance,category,counterparty,memo,is_internal,deposit,withdraw"

const (
	timestampFormat = "2006-01-02 15:04:05"

	numDailyFields = 7
	colDate        = 0
	colDeposit     = 1
	colWithdraw    = 2
	colNet         = 3
	colLastBalance = 4
	colCumDeposit  = 5
	colCumWithdraw = 6

	numTxnFields    = 12
	colTxnRow       = 0
	colTxnTimestamp = 1
	colTxnDate      = 2
	colTxnType      = 3
	colTxnAmount    = 4
	colTxnBalance   = 5
	colTxnCategory  = 6
	colTxnCparty    = 7
	colTxnMemo      = 8
	colTxnInternal  = 9
	colTxnDeposit   = 10
	colTxnWithdraw  = 11
)

// WriteDailyCSV writes the daily table including the header.
func WriteDailyCSV(w io.Writer, days []model.DailySummary) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(DailyHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, d := range days {
		if err := cw.Write(MarshalDaily(d)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalDaily converts a DailySummary to a CSV row.
func MarshalDaily(d model.DailySummary) []string {
	row := make([]string, numDailyFields)
	row[colDate] = d.Date.String()
	row[colDeposit] = d.Deposit.String()
	row[colWithdraw] = d.Withdraw.String()
	row[colNet] = d.Net.String()
	row[colLastBalance] = d.LastBalance.String()
	row[colCumDeposit] = d.CumDeposit.String()
	row[colCumWithdraw] = d.CumWithdraw.String()
	return row
}

// WriteTransactionsCSV writes normalized transactions including the header.
func WriteTransactionsCSV(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(TransactionsHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, txn := range txns {
		if err := cw.Write(MarshalTransaction(txn)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalTransaction converts a Transaction to a CSV row. Undated
// transactions have empty timestamp and date cells.
func MarshalTransaction(txn model.Transaction) []string {
	row := make([]string, numTxnFields)
	row[colTxnRow] = strconv.Itoa(txn.Row)
	if d, ok := txn.Date(); ok {
		row[colTxnTimestamp] = txn.Timestamp.Format(timestampFormat)
		row[colTxnDate] = d.String()
	}
	row[colTxnType] = txn.Type
	row[colTxnAmount] = txn.Amount.String()
	row[colTxnBalance] = txn.Balance.String()
	row[colTxnCategory] = txn.Category
	row[colTxnCparty] = txn.Counterparty
	row[colTxnMemo] = txn.Memo
	row[colTxnInternal] = strconv.FormatBool(txn.Internal)
	row[colTxnDeposit] = txn.Deposit.String()
	row[colTxnWithdraw] = txn.Withdraw.String()
	return row
}
