package postgres

// Identifiers are unquoted so that the mixed-case names used by compiled
// predicates fold to the same lower-case columns.
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
  timeSubmitted     BIGINT  NOT NULL DEFAULT 0,
  timeWithdrawn     BIGINT  NOT NULL DEFAULT 0,
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
