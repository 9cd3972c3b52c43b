package export

import (
	"bytes"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleTable() Table {
	t := Table{Sheet: "Users", Headers: []string{"Name", "Email"}}
	t.Append("Ada", "ada@example.com")
	t.Append("Linus, T", "linus@example.com")
	return t
}

func TestCSV_QuotesCommas(t *testing.T) {
	out, err := CSV(sampleTable())
	require.NoError(t, err)
	assert.Equal(t, "Name,Email\nAda,ada@example.com\n\"Linus, T\",linus@example.com\n", string(out))
}

func TestXLSX_ReadBack(t *testing.T) {
	out, err := XLSX(sampleTable())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Users")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Linus, T", "linus@example.com"}, rows[2])
}

func TestReadCSV(t *testing.T) {
	data := []byte("\xef\xbb\xbfFirst_Name, Email\nAda, ada@example.com\n,\nBob\n")
	rows, err := ReadCSV(data)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Ada", rows[0]["first_name"])
	assert.Equal(t, "ada@example.com", rows[0]["email"])
	assert.Equal(t, "", rows[1]["email"])
}

func TestSend_SetsHeaders(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return Send(c, sampleTable(), "xlsx", "users") })

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, ContentTypeXLSX, resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "users-")
	body, _ := io.ReadAll(resp.Body)
	assert.NotEmpty(t, body)
}
