package pipeline

import (
	"context"

	"edocta/edocta-csv/internal/currencyutils"
	"edocta/edocta-csv/internal/dateutils"
	"edocta/edocta-csv/internal/document"
	"edocta/edocta-csv/internal/extractor"
	"edocta/edocta-csv/internal/logging"
	"edocta/edocta-csv/internal/models"
	"edocta/edocta-csv/internal/profile"
	"edocta/edocta-csv/internal/reconstruct"
)

type pageResult struct {
	transactions []models.Transaction
	diagnostics  models.Diagnostics
}

// transformPage runs extract, normalize, clean up, reconstruct and classify for one page.
func (p *Pipeline) transformPage(ctx context.Context, page document.Page, prof profile.Profile, years dateutils.YearRange, log logging.Logger) pageResult {
	res := pageResult{diagnostics: models.Diagnostics{PagesScanned: 1}}
	log = log.WithField(logging.FieldPage, page.Number)

	rows := p.extractor.Extract(page, prof.Region, prof.Boundaries)
	if len(rows) == 0 {
		res.diagnostics.EmptyPages = 1
		log.Debug("No table rows on page")
		return res
	}

	records := make([]reconstruct.Record, 0, len(rows))
	for i, row := range rows {
		r := normalize(row, prof, years)
		if !r.HasDate && !prof.Rules.MergeContinuations {
			log.Debug("Dropping row with unresolvable date",
				logging.F(logging.FieldRow, i),
				logging.F(logging.FieldDescription, r.Description))
		}
		records = append(records, r)
	}

	if prof.Rules.RequireDescription {
		records, _ = reconstruct.DropBlankDescriptions(records)
	}
	if !prof.Rules.MergeContinuations {
		var dropped int
		records, dropped = reconstruct.DropUndated(records)
		res.diagnostics.RowsDropped += dropped
	}
	if prof.Rules.DropInstallmentDuplicates {
		records, res.diagnostics.MarkerRowsRemoved = reconstruct.RemoveInstallmentDuplicates(records)
	}
	if prof.Rules.MergeContinuations {
		var orphans int
		records, res.diagnostics.ContinuationsMerged, orphans = reconstruct.MergeContinuations(records)
		res.diagnostics.RowsDropped += orphans
	}
	if prof.Rules.SwapPolarity {
		records = reconstruct.SwapPolarity(records)
	}

	res.transactions = make([]models.Transaction, 0, len(records))
	for _, r := range records {
		tx := models.NewTransaction(r.Date, r.Description, r.Debit, r.Credit)
		tx.Category = models.CategoryOther
		if p.classifier != nil {
			tx.Category = p.classifier.Categorize(ctx, tx.Description).Category
		}
		res.transactions = append(res.transactions, tx)
	}
	return res
}

// normalize maps one raw line onto a record. Columns past the profile's field
// list are ignored.
func normalize(row extractor.RawRow, prof profile.Profile, years dateutils.YearRange) reconstruct.Record {
	cell := func(f profile.Field) string {
		return row.Cell(prof.Index(f))
	}

	r := reconstruct.Record{
		Description: cell(profile.FieldDescription),
		Debit:       currencyutils.ParseAmount(cell(profile.FieldDebit)),
		Credit:      currencyutils.ParseAmount(cell(profile.FieldCredit)),
	}
	for _, f := range prof.RequiredDates {
		d, ok := dateutils.Resolve(prof.DateMode, cell(f), years)
		if !ok {
			return reconstruct.Record{Description: r.Description, Debit: r.Debit, Credit: r.Credit}
		}
		if f == profile.FieldDate {
			r.Date = d
		}
	}
	r.HasDate = true
	return r
}
