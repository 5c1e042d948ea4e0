package ledger

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneytrail/moneytrail/internal/logger"
	"github.com/moneytrail/moneytrail/internal/model"
)

var testAliases = []string{"박수호", "suho", "수호"}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func date(s string) civil.Date {
	d, err := civil.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	if !dec(want).Equal(got) {
		assert.Fail(t, fmt.Sprintf("want %s, got %s", want, got), msgAndArgs...)
	}
}

func loadTestdata(t *testing.T) *Result {
	t.Helper()
	res, err := Load("../../testdata/bank.csv", Options{Aliases: testAliases})
	require.NoError(t, err)
	return res
}

func process(t *testing.T, csv string) *Result {
	t.Helper()
	res, err := Process(strings.NewReader(csv), Options{Aliases: testAliases})
	require.NoError(t, err)
	return res
}

func TestLoad_Transactions(t *testing.T) {
	res := loadTestdata(t)
	require.Len(t, res.Transactions, 9)

	// Sorted by time; the out-of-order 03-02 row moves ahead of 03-03.
	rows := make([]int, len(res.Transactions))
	for i, txn := range res.Transactions {
		rows[i] = txn.Row
	}
	assert.Equal(t, []int{1, 2, 3, 5, 4, 6, 8, 9, 7}, rows)

	first := res.Transactions[0]
	assert.Equal(t, time.Date(2025, 3, 1, 9, 12, 44, 0, time.UTC), first.Timestamp)
	assert.Equal(t, "입금", first.Type)
	assertDec(t, "1500000", first.Amount)
	assertDec(t, "1500000", first.Balance)
	assert.Equal(t, "급여", first.Category)
	assert.Equal(t, "주식회사한빛", first.Counterparty)
	assert.Equal(t, "3월 급여", first.Memo)
	assert.False(t, first.Internal)

	assert.True(t, res.Transactions[2].Internal, "박수호 is an alias")
	assert.True(t, res.Transactions[5].Internal, "suho 저축 contains an alias")

	undated := res.Transactions[8]
	assert.False(t, undated.Dated())
	assert.True(t, undated.Issues.Has(model.IssueTimestamp))
	assertDec(t, "-1000", undated.Amount)
}

func TestLoad_Issues(t *testing.T) {
	res := loadTestdata(t)
	require.Len(t, res.Issues, 2)
	assert.Equal(t, model.DataIssue{Row: 7, Field: "timestamp", Value: "2025/03/05 11:00"}, res.Issues[0])
	assert.Equal(t, model.DataIssue{Row: 8, Field: "amount", Value: "abc"}, res.Issues[1])
}

func TestLoad_Daily(t *testing.T) {
	res := loadTestdata(t)
	require.Equal(t, 6, res.Daily.Len())

	want := []struct {
		date                                    string
		deposit, withdraw, net, bal, cumD, cumW string
	}{
		{"2025-03-01", "1500000", "8500", "1491500", "1491500", "1500000", "8500"},
		{"2025-03-02", "0", "120000", "-120000", "1171500", "1500000", "128500"},
		{"2025-03-03", "0", "4200", "-4200", "1167300", "1500000", "132700"},
		{"2025-03-04", "0", "0", "0", "1167300", "1500000", "132700"},
		{"2025-03-05", "0", "0", "0", "1167300", "1500000", "132700"},
		{"2025-03-06", "0", "150000", "-150000", "1216300", "1500000", "282700"},
	}
	for i, w := range want {
		d := res.Daily.Days[i]
		assert.Equal(t, date(w.date), d.Date)
		assertDec(t, w.deposit, d.Deposit, "deposit %s", w.date)
		assertDec(t, w.withdraw, d.Withdraw, "withdraw %s", w.date)
		assertDec(t, w.net, d.Net, "net %s", w.date)
		assertDec(t, w.bal, d.LastBalance, "last balance %s", w.date)
		assertDec(t, w.cumD, d.CumDeposit, "cum deposit %s", w.date)
		assertDec(t, w.cumW, d.CumWithdraw, "cum withdraw %s", w.date)
	}
}

func TestLoad_Report(t *testing.T) {
	res := loadTestdata(t)

	firstBlock := []string{
		"------------------------",
		"2025-03-01",
		"---오늘의거래내역---",
		"\t주식회사한빛 입금 +1,500,000",
		"\tGS25 금오공대점 출금 -8,500",
		"\t박수호 출금 -200,000 [SELF]",
		" ---오늘의입출금내역(CSV 기준)---",
		"입금: 1,500,000",
		"출금: 8,500",
		"순이익: +1,491,500",
		"---현재까지의 거래내역--",
		"현재까지 출금: 8,500",
		"현재까지 재산: 1,491,500",
		"",
	}
	require.GreaterOrEqual(t, len(res.Report), len(firstBlock))
	assert.Equal(t, firstBlock, res.Report[:len(firstBlock)])

	// 5 dated days with transactions (03-04 has none), 8 dated transactions.
	assert.Len(t, res.Report, 5*11+8)

	text := strings.Join(res.Report, "\n")
	assert.NotContains(t, text, "2025-03-04")
	assert.Contains(t, text, "\tsuho 저축 입금 +200,000 [SELF]")
	assert.Contains(t, text, "\t이마트 출금 0\n")
	assert.Contains(t, text, "\t카드결제 출금 -150,000")
	assert.Contains(t, text, "현재까지 재산: 1,216,300")
	assert.NotContains(t, text, "2025/03/05")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestProcess_UnknownFormat(t *testing.T) {
	_, err := Process(strings.NewReader(""), Options{Format: "ofx"})
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestProcess_Empty(t *testing.T) {
	res := process(t, "")
	assert.Empty(t, res.Transactions)
	assert.Equal(t, 0, res.Daily.Len())
	assert.Empty(t, res.Report)
}

func TestProcess_LogsIssues(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf)
	_, err := Process(strings.NewReader("bad,출금,x,1,,,\n"), Options{Logger: &log})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"field":"timestamp"`)
	assert.Contains(t, out, `"field":"amount"`)
	assert.Contains(t, out, "coerced malformed value")
}

// Deposit, external withdrawal and a transfer to self on one day.
func TestScenario_InternalTransferExcluded(t *testing.T) {
	res := process(t, strings.Join([]string{
		`2025.04.01 09:00:00,입금,"10,000","10,000",이체,회사,`,
		`2025.04.01 10:00:00,출금,"-3,000","7,000",체크카드,편의점,`,
		`2025.04.01 11:00:00,출금,"-5,000","2,000",이체,수호,`,
	}, "\n"))

	require.Equal(t, 1, res.Daily.Len())
	d := res.Daily.Days[0]
	assertDec(t, "10000", d.Deposit)
	assertDec(t, "3000", d.Withdraw)
	assertDec(t, "7000", d.Net)
	assertDec(t, "7000", d.LastBalance, "balance of the last non-internal row")
}

func TestScenario_InternalOnlyDayCarriesBalance(t *testing.T) {
	res := process(t, strings.Join([]string{
		`2025.04.01 09:00:00,입금,"50,000","50,000",이체,회사,`,
		`2025.04.02 09:00:00,출금,"-20,000","30,000",이체,박수호 적금,`,
	}, "\n"))

	require.Equal(t, 2, res.Daily.Len())
	d := res.Daily.Days[1]
	assertDec(t, "0", d.Withdraw)
	assertDec(t, "50000", d.LastBalance, "internal balance must not be used")
}

func TestScenario_AmountText(t *testing.T) {
	res := process(t, strings.Join([]string{
		`2025.04.01 09:00:00,입금,"1,234",,,,`,
		`2025.04.01 10:00:00,입금,,,,,`,
	}, "\n"))

	require.Len(t, res.Transactions, 2)
	assertDec(t, "1234", res.Transactions[0].Amount)
	assertDec(t, "0", res.Transactions[1].Amount)
	assertDec(t, "0", res.Transactions[1].Balance)
	assert.Empty(t, res.Issues)
}

func TestScenario_BadTimestamp(t *testing.T) {
	res := process(t, strings.Join([]string{
		`2025.04.02 09:00:00,입금,100,100,,가게,`,
		`not a time,입금,100,200,,가게,`,
		`2025.04.04 09:00:00,입금,100,300,,가게,`,
		`2025-04-10 09:00:00,입금,100,400,,가게,`,
	}, "\n"))

	require.Len(t, res.Transactions, 4)
	first, _ := res.Daily.First()
	last, _ := res.Daily.Last()
	assert.Equal(t, date("2025-04-02"), first)
	assert.Equal(t, date("2025-04-04"), last, "undated rows do not extend the range")
	assert.Equal(t, 3, res.Daily.Len())

	undated := 0
	for _, txn := range res.Transactions {
		if !txn.Dated() {
			undated++
		}
	}
	assert.Equal(t, 2, undated)
}

func TestScenario_BadTimestamp_Strict(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"fractional seconds", "2025.03.01 09:12:44.750"},
		{"comma fraction", "2025.03.01 09:12:44,5"},
		{"zero fraction", "2025.03.01 09:12:44.000"},
		{"zero time", "0001.01.01 00:00:00"},
		{"missing seconds", "2025.03.01 09:12"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := process(t, `"`+tt.raw+`",입금,100,100,,가게,`+"\n")

			require.Len(t, res.Transactions, 1)
			txn := res.Transactions[0]
			assert.False(t, txn.Dated())
			assert.True(t, txn.Issues.Has(model.IssueTimestamp))
			assert.Equal(t, []model.DataIssue{{Row: 1, Field: "timestamp", Value: tt.raw}}, res.Issues)
			assert.Zero(t, res.Daily.Len())
			assert.Empty(t, res.Report)
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	ts, ok := parseTimestamp("  2025.03.01 09:12:44 ")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 3, 1, 9, 12, 44, 0, time.UTC), ts)

	_, ok = parseTimestamp("2025.03.01 09:12:44.1")
	assert.False(t, ok)
}

func TestScenario_NoExternalTransactions(t *testing.T) {
	res := process(t, strings.Join([]string{
		`2025.04.01 09:00:00,입금,"5,000","5,000",이체,suho,`,
		`2025.04.03 09:00:00,입금,"5,000","10,000",이체,suho,`,
	}, "\n"))

	require.Equal(t, 3, res.Daily.Len())
	assertDec(t, "5000", res.Daily.Days[0].LastBalance)
	assertDec(t, "5000", res.Daily.Days[1].LastBalance)
	assertDec(t, "10000", res.Daily.Days[2].LastBalance)
	assertDec(t, "0", res.Daily.Days[2].CumDeposit)
}

func TestScenario_LeadingGapIsZero(t *testing.T) {
	res := process(t, strings.Join([]string{
		`2025.04.01 09:00:00,입금,"5,000","5,000",이체,suho,`,
		`2025.04.02 09:00:00,출금,-100,"4,900",,GS25,`,
	}, "\n"))

	require.Equal(t, 2, res.Daily.Len())
	assertDec(t, "0", res.Daily.Days[0].LastBalance)
	assertDec(t, "4900", res.Daily.Days[1].LastBalance)
}

func TestUnpaddedTimestamp(t *testing.T) {
	res := process(t, "2025.4.1 9:05:00,입금,1,1,,,\n")
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, time.Date(2025, 4, 1, 9, 5, 0, 0, time.UTC), res.Transactions[0].Timestamp)
}

func TestProperties(t *testing.T) {
	res := loadTestdata(t)

	for _, txn := range res.Transactions {
		assert.True(t, txn.Deposit.Sub(txn.Withdraw).Equal(txn.Amount), "row %d", txn.Row)
		assert.False(t, txn.Deposit.IsPositive() && txn.Withdraw.IsPositive(), "row %d", txn.Row)
	}

	days := res.Daily.Days
	for i := 1; i < len(days); i++ {
		assert.Equal(t, days[i-1].Date.AddDays(1), days[i].Date, "dates must be contiguous")
		assert.True(t, days[i].CumDeposit.GreaterThanOrEqual(days[i-1].CumDeposit))
		assert.True(t, days[i].CumWithdraw.GreaterThanOrEqual(days[i-1].CumWithdraw))
	}

	sumDeposit, sumWithdraw := decimal.Zero, decimal.Zero
	for _, txn := range res.Transactions {
		if txn.Internal || !txn.Dated() {
			continue
		}
		sumDeposit = sumDeposit.Add(txn.Deposit)
		sumWithdraw = sumWithdraw.Add(txn.Withdraw)
	}
	dailyDeposit, dailyWithdraw := decimal.Zero, decimal.Zero
	for _, d := range days {
		dailyDeposit = dailyDeposit.Add(d.Deposit)
		dailyWithdraw = dailyWithdraw.Add(d.Withdraw)
	}
	assert.True(t, sumDeposit.Equal(dailyDeposit))
	assert.True(t, sumWithdraw.Equal(dailyWithdraw))
}

func TestIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bank.csv")
	data, err := os.ReadFile("../../testdata/bank.csv")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	a, err := Load(path, Options{Aliases: testAliases})
	require.NoError(t, err)
	b, err := Load(path, Options{Aliases: testAliases})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestIsInternal(t *testing.T) {
	tests := []struct {
		counterparty string
		want         bool
	}{
		{"박수호", true},
		{"수호 적금", true},
		{"my suho account", true},
		{"SUHO", false},
		{"이마트", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsInternal(tt.counterparty, testAliases), "IsInternal(%q)", tt.counterparty)
	}
	assert.False(t, IsInternal("anything", []string{""}))
	assert.False(t, IsInternal("anything", nil))
}

func TestDailyTable_Lookup(t *testing.T) {
	res := loadTestdata(t)

	d, ok := res.Daily.Lookup(date("2025-03-04"))
	require.True(t, ok)
	assert.Equal(t, date("2025-03-04"), d.Date)

	_, ok = res.Daily.Lookup(date("2025-02-28"))
	assert.False(t, ok)
	_, ok = res.Daily.Lookup(date("2025-03-07"))
	assert.False(t, ok)

	_, ok = DailyTable{}.Lookup(date("2025-03-01"))
	assert.False(t, ok)
	assert.Len(t, res.Daily.Dates(), 6)
}
