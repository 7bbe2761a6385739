package google

import (
	"fmt"
	"strconv"
	"strings"

	"txboard/internal/core"
)

// parseCustomers converts a values matrix with an id/name header into customers.
// Blank rows are skipped.
func parseCustomers(values [][]interface{}) ([]core.Customer, error) {
	out := []core.Customer{}
	if len(values) == 0 {
		return out, nil
	}
	headers := toStrings(values[0])
	colID := indexOf(headers, "id")
	colName := indexOf(headers, "name")
	if colID == -1 || colName == -1 {
		return nil, fmt.Errorf("%w: customers header must contain id and name; got headers=%v", core.ErrMalformedPayload, headers)
	}
	for i := 1; i < len(values); i++ {
		row := values[i]
		if blankRow(row) {
			continue
		}
		id, err := cellID(safeCell(row, colID))
		if err != nil {
			return nil, fmt.Errorf("customers row %d: %w", i+1, err)
		}
		out = append(out, core.Customer{ID: id, Name: cellString(safeCell(row, colName))})
	}
	return out, nil
}

// parseTransactions converts a values matrix with a customer_id/date/amount
// header into transactions.
func parseTransactions(values [][]interface{}) ([]core.Transaction, error) {
	out := []core.Transaction{}
	if len(values) == 0 {
		return out, nil
	}
	headers := toStrings(values[0])
	colCustomer := indexOf(headers, "customer_id")
	colDate := indexOf(headers, "date")
	colAmount := indexOf(headers, "amount")
	if colCustomer == -1 || colDate == -1 || colAmount == -1 {
		missing := make([]string, 0, 3)
		if colCustomer == -1 {
			missing = append(missing, "customer_id")
		}
		if colDate == -1 {
			missing = append(missing, "date")
		}
		if colAmount == -1 {
			missing = append(missing, "amount")
		}
		return nil, fmt.Errorf("%w: transactions header missing %s; got headers=%v", core.ErrMalformedPayload, strings.Join(missing, ","), headers)
	}
	for i := 1; i < len(values); i++ {
		row := values[i]
		if blankRow(row) {
			continue
		}
		id, err := cellID(safeCell(row, colCustomer))
		if err != nil {
			return nil, fmt.Errorf("transactions row %d: %w", i+1, err)
		}
		amount, err := cellAmount(safeCell(row, colAmount))
		if err != nil {
			return nil, fmt.Errorf("transactions row %d: %w", i+1, err)
		}
		out = append(out, core.Transaction{
			CustomerID: id,
			Date:       cellString(safeCell(row, colDate)),
			Amount:     amount,
		})
	}
	return out, nil
}

// cellID keeps the cell's type: numeric cells become numeric ids, text cells string ids.
func cellID(v interface{}) (core.ID, error) {
	switch x := v.(type) {
	case float64:
		return core.NumberID(x), nil
	case string:
		if strings.TrimSpace(x) == "" {
			return core.ID{}, fmt.Errorf("%w: %w: empty id", core.ErrMalformedPayload, core.ErrInvalidID)
		}
		return core.StringID(x), nil
	default:
		return core.ID{}, fmt.Errorf("%w: %w: unsupported cell %v", core.ErrMalformedPayload, core.ErrInvalidID, v)
	}
}

func cellAmount(v interface{}) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: amount %q is not a number", core.ErrMalformedPayload, x)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: amount %v is not a number", core.ErrMalformedPayload, v)
	}
}

func cellString(v interface{}) string {
	if v == nil {
		return ""
	}
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

func blankRow(row []interface{}) bool {
	for _, v := range row {
		if strings.TrimSpace(fmt.Sprint(v)) != "" {
			return false
		}
	}
	return true
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func indexOf(arr []string, target string) int {
	for i, v := range arr {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(target)) {
			return i
		}
	}
	return -1
}

func safeCell(row []interface{}, idx int) interface{} {
	if idx < 0 || idx >= len(row) {
		return nil
	}
	return row[idx]
}
