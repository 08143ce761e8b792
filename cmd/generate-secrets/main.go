package main

import (
	"fmt"
	"log"

	"github.com/prathameshmane019/suhani-travels-sub000/internal/utils"
)

func main() {
	fmt.Println("===========================================")
	fmt.Println("JWT Secret Generator for Suhani Travels")
	fmt.Println("===========================================")
	fmt.Println()

	secret, err := utils.GenerateJWTSecret()
	if err != nil {
		log.Fatalf("Failed to generate secret: %v", err)
	}

	fmt.Println("Secret generated successfully!")
	fmt.Println()
	fmt.Println("Add this to your .env file or deployment secrets:")
	fmt.Println()
	fmt.Printf("JWT_SECRET=%s\n", secret)
	fmt.Println()
	fmt.Println("IMPORTANT: Keep this secret safe and never commit it to version control!")
	fmt.Println("===========================================")
}
