package tessera

// Version is the tessera release version, set at build time for tagged
// releases.
var Version = "0.3.1"
