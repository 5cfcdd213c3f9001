package template

// ReaderCSS is written to resources/static/reader.css.
const ReaderCSS = `
body {
  margin: 0 auto;
  max-width: 42em;
  padding: 1em 20px;
  box-sizing: border-box;
  background-color: #fff;
  line-height: 1.6;
  color: #333333;
}

header.reader-nav,
footer.reader-nav {
  display: flex;
  justify-content: space-between;
  font-size: 0.9em;
  margin: 1em 0;
}

h1 {
  text-align: center;
  font-size: 1.5em;
  margin: 2em auto;
  font-weight: bold;
  color: #2c3e50;
}

p {
  margin: 0.8em 0;
}

a.para-anchor {
  text-decoration: none;
  color: #cccccc;
  margin-left: 0.3em;
}

a.para-anchor::after {
  content: "\00b6";
}

img {
  max-width: 100%;
  height: auto;
  display: block;
  margin: 1em auto;
}

.book-cover .meta {
  text-align: center;
}
`
