package server

// indexHTML is the search form page. Submitting runs the pipeline and the
// browser receives the workbook as a download.
const indexHTML = `<!doctype html>
<html lang="pt-BR">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Busca CNPJ</title>
  <style>
    :root {
      --bg-1: #f6f2ea;
      --bg-2: #e3efe7;
      --ink: #1b1f1c;
      --muted: #5f6762;
      --accent: #0f6b4e;
    }
    * { box-sizing: border-box; }
    body {
      margin: 0;
      font-family: "Open Sans", "Trebuchet MS", sans-serif;
      color: var(--ink);
      background: linear-gradient(160deg, var(--bg-1), var(--bg-2));
      min-height: 100vh;
      display: flex;
      align-items: center;
      justify-content: center;
      padding: 28px;
    }
    .panel {
      width: min(560px, 92vw);
      background: #ffffff;
      border-radius: 18px;
      padding: 28px;
      border: 1px solid #e3e7df;
      box-shadow: 0 18px 50px rgba(15, 17, 12, 0.15);
    }
    h1 { margin: 0 0 6px; font-size: 24px; }
    p.hint { margin: 0 0 20px; color: var(--muted); font-size: 14px; }
    label { display: block; margin: 14px 0 6px; font-weight: 600; font-size: 14px; }
    input[type=text] {
      width: 100%;
      padding: 10px 12px;
      border: 1px solid #cfd6cf;
      border-radius: 10px;
      font-size: 15px;
    }
    button {
      margin-top: 20px;
      width: 100%;
      padding: 12px;
      border: 0;
      border-radius: 10px;
      background: var(--accent);
      color: #fff;
      font-size: 15px;
      font-weight: 600;
      cursor: pointer;
    }
    .error { margin-top: 16px; padding: 10px 12px; border-radius: 10px; background: #fdecec; color: #b3261e; font-size: 14px; }
    .message { margin-top: 16px; padding: 10px 12px; border-radius: 10px; background: #e7f4ed; color: #0f6b4e; font-size: 14px; }
  </style>
</head>
<body>
  <div class="panel">
    <h1>Busca CNPJ</h1>
    <p class="hint">Localize empresas no Google e cruze com o cadastro CNPJ. O resultado sai em planilha .xlsx.</p>
    <form method="post" action="/buscar">
      <label for="tipo">Tipo de empresa</label>
      <input type="text" id="tipo" name="tipo" placeholder="ex: restaurantes" value="{{.Tipo}}">
      <label for="cidade">Cidade</label>
      <input type="text" id="cidade" name="cidade" placeholder="ex: Santos" value="{{.Cidade}}">
      <button type="submit">Buscar e baixar planilha</button>
    </form>
    {{if .Error}}<div class="error">{{.Error}}</div>{{end}}
    {{if .Message}}<div class="message">{{.Message}}</div>{{end}}
  </div>
</body>
</html>
`
