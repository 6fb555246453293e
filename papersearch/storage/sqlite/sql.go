package sqlite

import "github.com/papersearch/papersearch/papersearch/storage"

const ddlBase = `
CREATE TABLE IF NOT EXISTS meta (
  key   TEXT PRIMARY KEY,
  value TEXT
);

CREATE TABLE IF NOT EXISTS Paper (
  paperId           INTEGER PRIMARY KEY,
  title             TEXT    NOT NULL DEFAULT '',
  abstract          TEXT    NOT NULL DEFAULT '',
  authorInformation TEXT    NOT NULL DEFAULT '',
  collaborators     TEXT    NOT NULL DEFAULT '',
  timeSubmitted     INTEGER NOT NULL DEFAULT 0,
  timeWithdrawn     INTEGER NOT NULL DEFAULT 0,
  outcome           INTEGER NOT NULL DEFAULT 0,
  leadContactId     INTEGER NOT NULL DEFAULT 0,
  managerContactId  INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS PaperReview (
  paperId           INTEGER NOT NULL REFERENCES Paper(paperId) ON DELETE CASCADE,
  reviewId          INTEGER NOT NULL,
  contactId         INTEGER NOT NULL DEFAULT 0,
  reviewType        INTEGER NOT NULL DEFAULT 0,
  reviewNeedsSubmit INTEGER NOT NULL DEFAULT 1,
  requestedBy       INTEGER NOT NULL DEFAULT 0,
  reviewToken       INTEGER NOT NULL DEFAULT 0,
  PRIMARY KEY (paperId, reviewId)
);
CREATE INDEX IF NOT EXISTS idx_review_contact ON PaperReview(contactId, paperId);
CREATE INDEX IF NOT EXISTS idx_review_token   ON PaperReview(reviewToken);

CREATE TABLE IF NOT EXISTS PaperConflict (
  paperId      INTEGER NOT NULL REFERENCES Paper(paperId) ON DELETE CASCADE,
  contactId    INTEGER NOT NULL,
  conflictType INTEGER NOT NULL,
  PRIMARY KEY (paperId, contactId)
);
CREATE INDEX IF NOT EXISTS idx_conflict_contact ON PaperConflict(contactId, paperId);
`

var SQLTemplates = storage.SQL{
	GetMeta: "SELECT value FROM meta WHERE key = ?1",
	SetMeta: "INSERT INTO meta(key,value) VALUES(?1,?2) ON CONFLICT(key) DO UPDATE SET value=excluded.value",

	UpsertPaper: `INSERT INTO Paper(paperId, title, abstract, authorInformation, collaborators,
			timeSubmitted, timeWithdrawn, outcome, leadContactId, managerContactId)
		VALUES(?1, ?2, ?3, ?4, ?5, ?6, ?7, ?8, ?9, ?10)
		ON CONFLICT(paperId) DO UPDATE SET title=excluded.title, abstract=excluded.abstract,
			authorInformation=excluded.authorInformation, collaborators=excluded.collaborators,
			timeSubmitted=excluded.timeSubmitted, timeWithdrawn=excluded.timeWithdrawn,
			outcome=excluded.outcome, leadContactId=excluded.leadContactId,
			managerContactId=excluded.managerContactId`,
	DeleteReviews:   "DELETE FROM PaperReview WHERE paperId = ?1",
	DeleteConflicts: "DELETE FROM PaperConflict WHERE paperId = ?1",
	InsertReview: `INSERT INTO PaperReview(paperId, reviewId, contactId, reviewType,
			reviewNeedsSubmit, requestedBy, reviewToken)
		VALUES(?1, ?2, ?3, ?4, ?5, ?6, ?7)`,
	InsertConflict: "INSERT INTO PaperConflict(paperId, contactId, conflictType) VALUES(?1, ?2, ?3)",
}
