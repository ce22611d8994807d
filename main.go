package main

import (
	"log"

	"github.com/joho/godotenv"

	"Frota/FiberConfig"
	"Frota/Models"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment defaults")
	}

	Models.Connect()
	FiberConfig.FiberConfig()
}
