package cli

const rootLong = `papersearch compiles conference paper searches into SQL and checks the
candidates against each paper's reviews, conflicts and decisions.

QUERIES
  12 12-15 #3       paper numbers; an out-of-order list sets the result order
  ti: ab: au: co:   title, abstract, authors, collaborators (any / none test emptiness)
  in:LIMIT          s, act, r, rout, a, ar, acc, undecided, unsub, lead, req,
                    reviewable, admin, alladmin, viewable, all
  dec:NAME          decision (yes, no, none, any or a decision name)
  show: hide: sort: edit: legend:
                    display directives
  NOT ! AND OR XOR THEN HIGHLIGHT[:color] ( )

CONFIGURATION
  papersearch.yaml in the working directory or ~/.config/papersearch/,
  PAPERSEARCH_* environment variables, then flags.`
