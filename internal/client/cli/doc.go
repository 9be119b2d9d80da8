// Package cli provides the interactive GastroHealth terminal client.
//
// It wires configuration, local storage, the API gateway, the session
// controller and the view router into a REPL. The commands on offer depend
// on the session state: signed-out users can register or log in, new users
// are walked through the profile survey and the API key prompt, and active
// users move between the feature screens (meal plan, food checker, symptom
// logger, health report, recipe library, reminders).
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
