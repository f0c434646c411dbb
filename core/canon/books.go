package canon

// Testament identifies which half of the canon a book belongs to.
type Testament string

const (
	OldTestament Testament = "OT"
	NewTestament Testament = "NT"
)

// Book is one entry of the catalog.
type Book struct {
	// Name is the canonical spelling used for output (e.g., "Romans").
	Name string `json:"name"`

	// OSIS is the OSIS book ID (e.g., "Rom", "1Cor").
	OSIS string `json:"osis"`

	// Order is the 1-indexed canonical position (Genesis = 1).
	Order int `json:"order"`

	// Chapters is the number of chapters in the book.
	Chapters int `json:"chapters"`

	Testament Testament `json:"testament"`

	// Synonyms lists accepted abbreviations and alternate names.
	Synonyms []string `json:"synonyms,omitempty"`
}

// HasChapter reports whether n is a valid chapter number for the book.
func (b *Book) HasChapter(n int) bool {
	return n >= 1 && n <= b.Chapters
}

// Names returns the canonical name followed by every synonym.
func (b *Book) Names() []string {
	names := make([]string, 0, len(b.Synonyms)+1)
	names = append(names, b.Name)
	return append(names, b.Synonyms...)
}

// bookTable is the 66-book Protestant canon in canonical order.
// Order is filled in by newCatalog.
var bookTable = []Book{
	// Law
	{Name: "Genesis", OSIS: "Gen", Chapters: 50, Testament: OldTestament, Synonyms: []string{"Gen", "Gn"}},
	{Name: "Exodus", OSIS: "Exod", Chapters: 40, Testament: OldTestament, Synonyms: []string{"Exod", "Exo"}},
	{Name: "Leviticus", OSIS: "Lev", Chapters: 27, Testament: OldTestament, Synonyms: []string{"Lev", "Lv"}},
	{Name: "Numbers", OSIS: "Num", Chapters: 36, Testament: OldTestament, Synonyms: []string{"Num", "Nm"}},
	{Name: "Deuteronomy", OSIS: "Deut", Chapters: 34, Testament: OldTestament, Synonyms: []string{"Deut", "Deu", "Dt"}},

	// History
	{Name: "Joshua", OSIS: "Josh", Chapters: 24, Testament: OldTestament, Synonyms: []string{"Josh", "Jos", "Jsh"}},
	{Name: "Judges", OSIS: "Judg", Chapters: 21, Testament: OldTestament, Synonyms: []string{"Judg", "Jdg", "Jdgs"}},
	{Name: "Ruth", OSIS: "Ruth", Chapters: 4, Testament: OldTestament, Synonyms: []string{"Rth"}},
	{Name: "1 Samuel", OSIS: "1Sam", Chapters: 31, Testament: OldTestament, Synonyms: []string{"1 Sam", "1Sam", "1 Sa", "1Samuel", "I Samuel", "First Samuel"}},
	{Name: "2 Samuel", OSIS: "2Sam", Chapters: 24, Testament: OldTestament, Synonyms: []string{"2 Sam", "2Sam", "2 Sa", "2Samuel", "II Samuel", "Second Samuel"}},
	{Name: "1 Kings", OSIS: "1Kgs", Chapters: 22, Testament: OldTestament, Synonyms: []string{"1 Kgs", "1Kgs", "1 Ki", "1Kings", "I Kings", "First Kings"}},
	{Name: "2 Kings", OSIS: "2Kgs", Chapters: 25, Testament: OldTestament, Synonyms: []string{"2 Kgs", "2Kgs", "2 Ki", "2Kings", "II Kings", "Second Kings"}},
	{Name: "1 Chronicles", OSIS: "1Chr", Chapters: 29, Testament: OldTestament, Synonyms: []string{"1 Chr", "1Chr", "1 Chron", "1Chronicles", "I Chronicles", "First Chronicles"}},
	{Name: "2 Chronicles", OSIS: "2Chr", Chapters: 36, Testament: OldTestament, Synonyms: []string{"2 Chr", "2Chr", "2 Chron", "2Chronicles", "II Chronicles", "Second Chronicles"}},
	{Name: "Ezra", OSIS: "Ezra", Chapters: 10, Testament: OldTestament, Synonyms: []string{"Ezr"}},
	{Name: "Nehemiah", OSIS: "Neh", Chapters: 13, Testament: OldTestament, Synonyms: []string{"Neh"}},
	{Name: "Esther", OSIS: "Esth", Chapters: 10, Testament: OldTestament, Synonyms: []string{"Esth", "Est"}},

	// Wisdom
	{Name: "Job", OSIS: "Job", Chapters: 42, Testament: OldTestament, Synonyms: []string{"Jb"}},
	{Name: "Psalms", OSIS: "Ps", Chapters: 150, Testament: OldTestament, Synonyms: []string{"Psalm", "Ps", "Psa", "Pss", "Psm"}},
	{Name: "Proverbs", OSIS: "Prov", Chapters: 31, Testament: OldTestament, Synonyms: []string{"Prov", "Pro", "Prv"}},
	{Name: "Ecclesiastes", OSIS: "Eccl", Chapters: 12, Testament: OldTestament, Synonyms: []string{"Eccl", "Eccles", "Ecc", "Qoheleth"}},
	{Name: "Song of Songs", OSIS: "Song", Chapters: 8, Testament: OldTestament, Synonyms: []string{"Song of Solomon", "Song", "SOS", "Canticles", "Cant"}},

	// Prophets
	{Name: "Isaiah", OSIS: "Isa", Chapters: 66, Testament: OldTestament, Synonyms: []string{"Isa"}},
	{Name: "Jeremiah", OSIS: "Jer", Chapters: 52, Testament: OldTestament, Synonyms: []string{"Jer", "Jr"}},
	{Name: "Lamentations", OSIS: "Lam", Chapters: 5, Testament: OldTestament, Synonyms: []string{"Lam"}},
	{Name: "Ezekiel", OSIS: "Ezek", Chapters: 48, Testament: OldTestament, Synonyms: []string{"Ezek", "Eze", "Ezk"}},
	{Name: "Daniel", OSIS: "Dan", Chapters: 12, Testament: OldTestament, Synonyms: []string{"Dan", "Dn"}},
	{Name: "Hosea", OSIS: "Hos", Chapters: 14, Testament: OldTestament, Synonyms: []string{"Hos"}},
	{Name: "Joel", OSIS: "Joel", Chapters: 3, Testament: OldTestament, Synonyms: []string{"Jl"}},
	{Name: "Amos", OSIS: "Amos", Chapters: 9, Testament: OldTestament},
	{Name: "Obadiah", OSIS: "Obad", Chapters: 1, Testament: OldTestament, Synonyms: []string{"Obad", "Oba"}},
	{Name: "Jonah", OSIS: "Jonah", Chapters: 4, Testament: OldTestament, Synonyms: []string{"Jon", "Jnh"}},
	{Name: "Micah", OSIS: "Mic", Chapters: 7, Testament: OldTestament, Synonyms: []string{"Mic"}},
	{Name: "Nahum", OSIS: "Nah", Chapters: 3, Testament: OldTestament, Synonyms: []string{"Nah"}},
	{Name: "Habakkuk", OSIS: "Hab", Chapters: 3, Testament: OldTestament, Synonyms: []string{"Hab", "Hb"}},
	{Name: "Zephaniah", OSIS: "Zeph", Chapters: 3, Testament: OldTestament, Synonyms: []string{"Zeph", "Zep", "Zp"}},
	{Name: "Haggai", OSIS: "Hag", Chapters: 2, Testament: OldTestament, Synonyms: []string{"Hag", "Hg"}},
	{Name: "Zechariah", OSIS: "Zech", Chapters: 14, Testament: OldTestament, Synonyms: []string{"Zech", "Zec", "Zc"}},
	{Name: "Malachi", OSIS: "Mal", Chapters: 4, Testament: OldTestament, Synonyms: []string{"Mal", "Ml"}},

	// Gospels and Acts
	{Name: "Matthew", OSIS: "Matt", Chapters: 28, Testament: NewTestament, Synonyms: []string{"Matt", "Mat", "Mt"}},
	{Name: "Mark", OSIS: "Mark", Chapters: 16, Testament: NewTestament, Synonyms: []string{"Mrk", "Mk"}},
	{Name: "Luke", OSIS: "Luke", Chapters: 24, Testament: NewTestament, Synonyms: []string{"Luk", "Lk"}},
	{Name: "John", OSIS: "John", Chapters: 21, Testament: NewTestament, Synonyms: []string{"Joh", "Jhn", "Jn"}},
	{Name: "Acts", OSIS: "Acts", Chapters: 28, Testament: NewTestament, Synonyms: []string{"Act"}},

	// Epistles
	{Name: "Romans", OSIS: "Rom", Chapters: 16, Testament: NewTestament, Synonyms: []string{"Rom", "Rm"}},
	{Name: "1 Corinthians", OSIS: "1Cor", Chapters: 16, Testament: NewTestament, Synonyms: []string{"1 Cor", "1Cor", "1 Co", "1Corinthians", "I Corinthians", "First Corinthians"}},
	{Name: "2 Corinthians", OSIS: "2Cor", Chapters: 13, Testament: NewTestament, Synonyms: []string{"2 Cor", "2Cor", "2 Co", "2Corinthians", "II Corinthians", "Second Corinthians"}},
	{Name: "Galatians", OSIS: "Gal", Chapters: 6, Testament: NewTestament, Synonyms: []string{"Gal", "Ga"}},
	{Name: "Ephesians", OSIS: "Eph", Chapters: 6, Testament: NewTestament, Synonyms: []string{"Eph", "Ephes"}},
	{Name: "Philippians", OSIS: "Phil", Chapters: 4, Testament: NewTestament, Synonyms: []string{"Phil", "Php"}},
	{Name: "Colossians", OSIS: "Col", Chapters: 4, Testament: NewTestament, Synonyms: []string{"Col"}},
	{Name: "1 Thessalonians", OSIS: "1Thess", Chapters: 5, Testament: NewTestament, Synonyms: []string{"1 Thess", "1Thess", "1 Th", "1Thessalonians", "I Thessalonians", "First Thessalonians"}},
	{Name: "2 Thessalonians", OSIS: "2Thess", Chapters: 3, Testament: NewTestament, Synonyms: []string{"2 Thess", "2Thess", "2 Th", "2Thessalonians", "II Thessalonians", "Second Thessalonians"}},
	{Name: "1 Timothy", OSIS: "1Tim", Chapters: 6, Testament: NewTestament, Synonyms: []string{"1 Tim", "1Tim", "1 Ti", "1Timothy", "I Timothy", "First Timothy"}},
	{Name: "2 Timothy", OSIS: "2Tim", Chapters: 4, Testament: NewTestament, Synonyms: []string{"2 Tim", "2Tim", "2 Ti", "2Timothy", "II Timothy", "Second Timothy"}},
	{Name: "Titus", OSIS: "Titus", Chapters: 3, Testament: NewTestament, Synonyms: []string{"Tit"}},
	{Name: "Philemon", OSIS: "Phlm", Chapters: 1, Testament: NewTestament, Synonyms: []string{"Philem", "Phlm", "Phm"}},
	{Name: "Hebrews", OSIS: "Heb", Chapters: 13, Testament: NewTestament, Synonyms: []string{"Heb"}},
	{Name: "James", OSIS: "Jas", Chapters: 5, Testament: NewTestament, Synonyms: []string{"Jas", "Jm"}},
	{Name: "1 Peter", OSIS: "1Pet", Chapters: 5, Testament: NewTestament, Synonyms: []string{"1 Pet", "1Pet", "1 Pe", "1 Pt", "1Peter", "I Peter", "First Peter"}},
	{Name: "2 Peter", OSIS: "2Pet", Chapters: 3, Testament: NewTestament, Synonyms: []string{"2 Pet", "2Pet", "2 Pe", "2 Pt", "2Peter", "II Peter", "Second Peter"}},
	{Name: "1 John", OSIS: "1John", Chapters: 5, Testament: NewTestament, Synonyms: []string{"1 Jn", "1Jn", "1 Jhn", "1John", "I John", "First John"}},
	{Name: "2 John", OSIS: "2John", Chapters: 1, Testament: NewTestament, Synonyms: []string{"2 Jn", "2Jn", "2 Jhn", "2John", "II John", "Second John"}},
	{Name: "3 John", OSIS: "3John", Chapters: 1, Testament: NewTestament, Synonyms: []string{"3 Jn", "3Jn", "3 Jhn", "3John", "III John", "Third John"}},
	{Name: "Jude", OSIS: "Jude", Chapters: 1, Testament: NewTestament, Synonyms: []string{"Jud", "Jd"}},

	// Apocalypse
	{Name: "Revelation", OSIS: "Rev", Chapters: 22, Testament: NewTestament, Synonyms: []string{"Rev", "Revelations", "The Revelation"}},
}
