package models

type DaemonArgs struct {
	OJHome string
	Debug  bool
	Once   bool
}
