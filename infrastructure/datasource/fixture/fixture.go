// Package fixture lê a tabela de notificações de um arquivo YAML.
// Usado em desenvolvimento local, nos testes e pelo script de carga do banco.
package fixture

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/vfg2006/casos-es-api/internal/domain"
	"gopkg.in/yaml.v3"
)

// File é o formato do arquivo:
//
//	casos:
//	  - descricao: Zika
//	    municipio_paciente: Vitória
//	    data_notificacao: "2024-01-03"
//	    classif_final: Confirmado Laboratorial
//	    evoluc_caso: Cura
type File struct {
	Cases []domain.CaseRecord `yaml:"casos"`
}

// Decode lê um arquivo de fixture; chaves ausentes viram valores nulos
func Decode(r io.Reader) ([]domain.CaseRecord, error) {
	var file File
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return []domain.CaseRecord{}, nil
		}
		return nil, errors.Wrap(err, "fixture: yaml inválido")
	}

	if file.Cases == nil {
		return []domain.CaseRecord{}, nil
	}
	return file.Cases, nil
}

// Source relê o arquivo a cada chamada, como uma consulta à tabela remota
type Source struct {
	path string
}

func NewSource(path string) *Source {
	return &Source{path: path}
}

func (s *Source) ListCases(ctx context.Context) ([]domain.CaseRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, errors.Wrapf(err, "fixture: erro ao abrir %s", s.path)
	}
	defer f.Close()

	return Decode(f)
}
