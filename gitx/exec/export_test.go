package exec

// OpenerCommandForTest exposes openerCommand.
var OpenerCommandForTest = openerCommand
