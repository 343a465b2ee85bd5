package main

import "activity-enroll-system/cmd/server"

func main() {
	server.Init()
	server.Run()
}
