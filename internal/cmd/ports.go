package cmd

import (
	"fmt"

	"github.com/omnishock/omnishock/internal/link"
)

// Ports lists the serial ports an emulator could be attached to.
type Ports struct {
	USBOnly bool `help:"Only list USB serial adapters" env:"OMNISHOCK_PORTS_USB_ONLY"`
}

// Run is called by Kong when the ports command is executed.
func (p *Ports) Run() error {
	ports, err := link.Ports()
	if err != nil {
		return err
	}
	listed := 0
	for _, port := range ports {
		if p.USBOnly && !port.USB {
			continue
		}
		fmt.Println(port)
		listed++
	}
	if listed == 0 {
		fmt.Println("No serial ports found")
	}
	return nil
}
