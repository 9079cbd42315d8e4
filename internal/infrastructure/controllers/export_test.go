package controllers

import "github.com/spf13/cobra"

// Run exposes run for tests so failures can be asserted without exiting.
func (it *UpdateController) Run(cmd *cobra.Command) error {
	return it.run(cmd)
}
