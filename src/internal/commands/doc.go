// Package commands implements the captivegate CLI.
//
// Every subcommand implements Runner: Init parses its flags and loads the
// configuration, Run performs the work. One-shot commands (enable, allow,
// admit, ...) build the same gate the daemon uses, issue their commands
// and exit; "service" keeps running, serves the control API and disables
// gating again on shutdown.
//
//	cmd := commands.CreateAdmitCommand()
//	ctx := &commands.AppContext{ConfigPath: "/etc/captivegate/captivegate.toml"}
//	if err := cmd.Init([]string{"-token", "abc", "aa:bb:cc:dd:ee:ff"}, ctx); err != nil {
//	    log.Fatalf("%v", err)
//	}
//	if err := cmd.Run(); err != nil {
//	    log.Fatalf("%v", err)
//	}
package commands
