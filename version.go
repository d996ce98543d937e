package maestro

// Version is the release version of the maestro module.
const Version = "0.4.1"
