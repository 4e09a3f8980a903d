// Package finrep provides the accounting core of a personal finance report:
// currency normalization of a spending journal, and realized and unrealized
// performance of an investment journal.
//
// The core functionalities include:
//   - Rates: RateProvider serves dense daily exchange rate series, fetched
//     from an upstream source, interpolated over weekends and holidays, cached
//     and extended on disk. Missing pairs are synthesized through USD.
//   - Normalization: Normalizer converts ValuedRecords into a single currency,
//     either at the rate of each record's date or at the current rate.
//   - Investments: MatchFIFO consumes buy lots, oldest first, to compute the
//     realized P&L of each sale. Valuate marks the remaining lots to market.
//   - Analytics: monthly balance and capital, outstanding debts, spending by
//     category, and the split of the assets by currency.
//
// Journals are stored as JSONL files, see DecodeRecords, DecodeTrades and
// DecodeAssets. This package serves as the foundational logic for the `finrep`
// command-line tool.
package finrep
