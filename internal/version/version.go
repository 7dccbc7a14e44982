package version

// Current is the launcher version, overridable at build time with
// -ldflags "-X kgchat-launcher/internal/version.Current=...".
var Current = "1.2.0"
