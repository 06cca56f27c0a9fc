// Command casosctl renderiza o painel de casos no terminal, usando a mesma
// fonte e os mesmos agregadores da API.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetOutput(os.Stderr)
	logrus.SetLevel(logrus.WarnLevel)

	if err := newRootCmd(openDashboard).Execute(); err != nil {
		os.Exit(1)
	}
}
