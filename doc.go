// Package taxrevo computes realized capital-gains and dividend tax figures
// from a chronological log of brokerage transactions denominated in a foreign
// currency.
//
// Each event is converted to the local currency using the exchange rate
// published the day before its trade date, sells are matched FIFO against
// previously accumulated buy lots to determine the cost basis, and the
// per-instrument results are aggregated into portfolio totals and tax-due
// amounts.
package taxrevo
