package templating

// WordsForTest exposes words for testing.
var WordsForTest = words
