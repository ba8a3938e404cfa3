package grid

const columnLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// ColumnName returns the spreadsheet name of the 0-based column i:
// A..Z, AA..AZ, BA.. and so on. Negative indexes have no name.
func ColumnName(i int) string {
	if i < 0 {
		return ""
	}
	n := len(columnLetters)
	if next := i / n; next > 0 {
		return ColumnName(next-1) + string(columnLetters[i%n])
	}
	return string(columnLetters[i%n])
}
