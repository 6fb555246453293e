package postgres

import "github.com/papersearch/papersearch/papersearch/storage"

var SQLTemplates = storage.SQL{
	GetMeta: "SELECT value FROM meta WHERE key = $1",
	SetMeta: "INSERT INTO meta(key,value) VALUES($1,$2) ON CONFLICT(key) DO UPDATE SET value=EXCLUDED.value",

	UpsertPaper: `INSERT INTO Paper(paperId, title, abstract, authorInformation, collaborators,
			timeSubmitted, timeWithdrawn, outcome, leadContactId, managerContactId)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT(paperId) DO UPDATE SET title=EXCLUDED.title, abstract=EXCLUDED.abstract,
			authorInformation=EXCLUDED.authorInformation, collaborators=EXCLUDED.collaborators,
			timeSubmitted=EXCLUDED.timeSubmitted, timeWithdrawn=EXCLUDED.timeWithdrawn,
			outcome=EXCLUDED.outcome, leadContactId=EXCLUDED.leadContactId,
			managerContactId=EXCLUDED.managerContactId`,
	DeleteReviews:   "DELETE FROM PaperReview WHERE paperId = $1",
	DeleteConflicts: "DELETE FROM PaperConflict WHERE paperId = $1",
	InsertReview: `INSERT INTO PaperReview(paperId, reviewId, contactId, reviewType,
			reviewNeedsSubmit, requestedBy, reviewToken)
		VALUES($1, $2, $3, $4, $5, $6, $7)`,
	InsertConflict: "INSERT INTO PaperConflict(paperId, contactId, conflictType) VALUES($1, $2, $3)",
}
