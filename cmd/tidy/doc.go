// Command tidy sorts the top-level files of a folder into category
// subfolders and can undo the most recent run.
//
// Subcommands:
//
//	tidy organize <folder>   move files into Images/, Documents/, ... and log every move
//	tidy undo                move every logged file back and delete the log
//	tidy status              show the undo log, pending records and path checks
//	tidy classify <name>...  print the category a file name maps to
//	tidy config init|validate
//
// Configuration is read from --config, ~/.config/tidy/config.toml or
// ./tidy.toml; see internal/config for the available keys.
package main
