package commitmsg

var ExtractSourceForTest = extractSource
