// Package config manages application settings.
//
// Settings are stored as a JSON file. Missing files yield defaults, and
// a partial file only overrides the fields it names.
//
// # Basic Usage
//
//	settings, err := config.Load("~/.config/ytmp3/settings.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	settings.AudioQuality = "256"
//	settings.Save("~/.config/ytmp3/settings.json")
package config
